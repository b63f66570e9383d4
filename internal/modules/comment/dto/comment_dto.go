package dto

type CommentRequest struct {
	Text string `json:"text" binding:"max=1000"`
}
