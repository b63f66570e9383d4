package dto

type ChangeStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	ReviewComment *string `json:"review_comment" binding:"omitempty,max=1000"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"max=2000"`
}
