package dto

import (
	"testing"
	"time"

	"anoa.com/ideaboard/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestToIdeaDetailResponse(t *testing.T) {
	reviewerID := uuid.New()
	reviewerName := "Mia Manager"
	comment := "needs detail"

	idea := &entity.Idea{
		ID:                 uuid.New(),
		Title:              "Standing desks",
		Category:           entity.Category{Name: "Workplace"},
		SubmittedBy:        entity.User{Name: "Eve Employee"},
		SubmittedDate:      time.Now(),
		Status:             entity.IdeaRejected,
		ReviewedByUserID:   &reviewerID,
		ReviewedByUserName: &reviewerName,
		ReviewComment:      &comment,
		Votes: []entity.Vote{
			{VoteType: entity.VoteUp}, {VoteType: entity.VoteUp}, {VoteType: entity.VoteDown},
		},
		Comments: []entity.Comment{{Text: "bad", User: entity.User{Name: "Bob"}}},
		Reviews:  []entity.Review{{Feedback: "try again", Reviewer: entity.User{Name: reviewerName}}},
	}

	res := ToIdeaDetailResponse(idea)

	assert.Equal(t, "Workplace", res.CategoryName)
	assert.Equal(t, "Eve Employee", res.SubmittedByUserName)
	assert.Equal(t, "Rejected", res.Status)
	assert.Equal(t, 2, res.Upvotes)
	assert.Equal(t, 1, res.Downvotes)
	assert.Equal(t, "Bob", res.Comments[0].UserName)
	assert.Equal(t, reviewerName, res.Reviews[0].ReviewerName)
	assert.Equal(t, &comment, res.ReviewComment)
}

func TestToIdeaResponseEmptyCollections(t *testing.T) {
	res := ToIdeaResponse(&entity.Idea{Status: entity.IdeaUnderReview})
	assert.NotNil(t, res.Comments)
	assert.Zero(t, res.Upvotes)
}
