// Package dto holds the idea projections shared by the idea, review and comment modules.
package dto

import (
	"time"

	"anoa.com/ideaboard/internal/entity"
	"github.com/google/uuid"
)

type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	IdeaID    uuid.UUID `json:"idea_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	IdeaID       uuid.UUID `json:"idea_id"`
	ReviewerID   uuid.UUID `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name"`
	Feedback     string    `json:"feedback"`
	ReviewDate   time.Time `json:"review_date"`
}

type IdeaResponse struct {
	ID                  uuid.UUID         `json:"id"`
	Title               string            `json:"title"`
	Description         string            `json:"description"`
	CategoryID          uuid.UUID         `json:"category_id"`
	CategoryName        string            `json:"category_name"`
	SubmittedByUserID   uuid.UUID         `json:"submitted_by_user_id"`
	SubmittedByUserName string            `json:"submitted_by_user_name"`
	SubmittedDate       time.Time         `json:"submitted_date"`
	Status              string            `json:"status"`
	Upvotes             int               `json:"upvotes"`
	Downvotes           int               `json:"downvotes"`
	Comments            []CommentResponse `json:"comments"`
}

// IdeaDetailResponse is the reviewer-facing shape.
type IdeaDetailResponse struct {
	IdeaResponse
	ReviewedByUserID   *uuid.UUID       `json:"reviewed_by_user_id,omitempty"`
	ReviewedByUserName *string          `json:"reviewed_by_user_name,omitempty"`
	ReviewComment      *string          `json:"review_comment,omitempty"`
	Reviews            []ReviewResponse `json:"reviews"`
}

func ToCommentResponse(c *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		IdeaID:    c.IdeaID,
		UserID:    c.UserID,
		UserName:  c.User.Name,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToReviewResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		IdeaID:       r.IdeaID,
		ReviewerID:   r.ReviewerID,
		ReviewerName: r.Reviewer.Name,
		Feedback:     r.Feedback,
		ReviewDate:   r.ReviewDate,
	}
}

// ToIdeaResponse expects Category, SubmittedBy, Votes and Comments.User to be loaded.
func ToIdeaResponse(i *entity.Idea) IdeaResponse {
	up, down := i.VoteCounts()
	comments := make([]CommentResponse, 0, len(i.Comments))
	for idx := range i.Comments {
		comments = append(comments, ToCommentResponse(&i.Comments[idx]))
	}

	return IdeaResponse{
		ID:                  i.ID,
		Title:               i.Title,
		Description:         i.Description,
		CategoryID:          i.CategoryID,
		CategoryName:        i.Category.Name,
		SubmittedByUserID:   i.SubmittedByUserID,
		SubmittedByUserName: i.SubmittedBy.Name,
		SubmittedDate:       i.SubmittedDate,
		Status:              string(i.Status),
		Upvotes:             up,
		Downvotes:           down,
		Comments:            comments,
	}
}

func ToIdeaResponses(ideas []*entity.Idea) []IdeaResponse {
	res := make([]IdeaResponse, 0, len(ideas))
	for _, i := range ideas {
		res = append(res, ToIdeaResponse(i))
	}
	return res
}

// ToIdeaDetailResponse additionally expects Reviews.Reviewer to be loaded.
func ToIdeaDetailResponse(i *entity.Idea) IdeaDetailResponse {
	reviews := make([]ReviewResponse, 0, len(i.Reviews))
	for idx := range i.Reviews {
		reviews = append(reviews, ToReviewResponse(&i.Reviews[idx]))
	}

	return IdeaDetailResponse{
		IdeaResponse:       ToIdeaResponse(i),
		ReviewedByUserID:   i.ReviewedByUserID,
		ReviewedByUserName: i.ReviewedByUserName,
		ReviewComment:      i.ReviewComment,
		Reviews:            reviews,
	}
}

func ToIdeaDetailResponses(ideas []*entity.Idea) []IdeaDetailResponse {
	res := make([]IdeaDetailResponse, 0, len(ideas))
	for _, i := range ideas {
		res = append(res, ToIdeaDetailResponse(i))
	}
	return res
}
