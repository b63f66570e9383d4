package dto

import (
	sharedDto "anoa.com/ideaboard/internal/dto"
	commonDto "anoa.com/ideaboard/pkg/dto"
	"github.com/google/uuid"
)

type SubmitIdeaRequest struct {
	Title       string    `json:"title" binding:"required,min=5,max=200"`
	Description string    `json:"description" binding:"required,min=10,max=5000"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
}

type UpdateIdeaRequest struct {
	Title       string    `json:"title" binding:"required,min=5,max=200"`
	Description string    `json:"description" binding:"required,min=10,max=5000"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
}

type SearchIdeaQuery struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type PaginatedIdeaResponse struct {
	Data []sharedDto.IdeaResponse `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
