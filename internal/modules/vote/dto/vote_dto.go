package dto

import (
	"time"

	"anoa.com/ideaboard/internal/entity"
	"github.com/google/uuid"
)

type DownvoteRequest struct {
	CommentText string `json:"comment_text" binding:"max=1000"`
}

type VoteResponse struct {
	VoteID    uuid.UUID `json:"vote_id"`
	IdeaID    uuid.UUID `json:"idea_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	VoteType  string    `json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}

type UserVoteStatusResponse struct {
	HasVoted bool    `json:"has_voted"`
	VoteType *string `json:"vote_type,omitempty"`
}

func ToVoteResponse(v *entity.Vote) VoteResponse {
	return VoteResponse{
		VoteID:    v.ID,
		IdeaID:    v.IdeaID,
		UserID:    v.UserID,
		UserName:  v.User.Name,
		VoteType:  string(v.VoteType),
		CreatedAt: v.CreatedAt,
	}
}
