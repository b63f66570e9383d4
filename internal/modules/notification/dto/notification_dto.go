package dto

import (
	"time"

	"anoa.com/ideaboard/internal/entity"
	commonDto "anoa.com/ideaboard/pkg/dto"
	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	IdeaID     *uuid.UUID `json:"idea_id,omitempty"`
	ReviewerID *uuid.UUID `json:"reviewer_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type PaginatedNotificationResponse struct {
	Data []NotificationResponse   `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Type:       string(n.Type),
		Message:    n.Message,
		Status:     string(n.Status),
		IdeaID:     n.IdeaID,
		ReviewerID: n.ReviewerID,
		CreatedAt:  n.CreatedAt,
	}
}
