package service

import (
	"context"
	"testing"

	"anoa.com/ideaboard/internal/entity"
	notifRepo "anoa.com/ideaboard/internal/modules/notification/repository"
	notifService "anoa.com/ideaboard/internal/modules/notification/service"
	"anoa.com/ideaboard/internal/modules/review/dto"
	"anoa.com/ideaboard/internal/modules/review/repository"
	"anoa.com/ideaboard/internal/testutil"
	"anoa.com/ideaboard/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type reviewFixture struct {
	db        *gorm.DB
	submitter *entity.User
	first     *entity.User
	second    *entity.User
	idea      *entity.Idea
}

func newReviewFixture(t *testing.T) reviewFixture {
	t.Helper()
	db := testutil.NewDB(t)
	submitter := testutil.CreateUser(t, db, "Sam Submitter", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	return reviewFixture{
		db:        db,
		submitter: submitter,
		first:     testutil.CreateUser(t, db, "Mia Manager", entity.RoleManager, entity.StatusActive),
		second:    testutil.CreateUser(t, db, "Noah Manager", entity.RoleManager, entity.StatusActive),
		idea:      testutil.CreateIdea(t, db, "Four day week", cat.ID, submitter.ID),
	}
}

func (f reviewFixture) service(notifyOnApproval bool) ReviewService {
	notifier := notifService.NewNotificationService(notifRepo.NewNotificationRepository(f.db))
	return NewReviewService(repository.NewReviewRepository(f.db), notifier, notifyOnApproval, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestRejectThenLockToOriginalReviewer(t *testing.T) {
	f := newReviewFixture(t)
	svc := f.service(false)
	ctx := context.Background()

	res, err := svc.ChangeIdeaStatus(ctx, f.idea.ID, f.first.ID, dto.ChangeStatusRequest{
		Status:        "rejected",
		ReviewComment: strPtr("needs detail"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rejected", res.Status)
	require.NotNil(t, res.ReviewComment)
	assert.Equal(t, "needs detail", *res.ReviewComment)
	require.NotNil(t, res.ReviewedByUserName)
	assert.Equal(t, "Mia Manager", *res.ReviewedByUserName)

	var n entity.Notification
	require.NoError(t, f.db.First(&n, "user_id = ? AND type = ?", f.submitter.ID, entity.NotificationReviewDecision).Error)
	assert.Equal(t, `Your idea "Four day week" has been rejected by Mia Manager`, n.Message)
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &entity.Notification{}, "user_id = ?", f.submitter.ID))

	_, err = svc.ChangeIdeaStatus(ctx, f.idea.ID, f.second.ID, dto.ChangeStatusRequest{Status: "Approved"})
	assert.ErrorIs(t, err, ErrReviewerLocked)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	res, err = svc.ChangeIdeaStatus(ctx, f.idea.ID, f.first.ID, dto.ChangeStatusRequest{Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Approved", res.Status)
	assert.Nil(t, res.ReviewComment)

	assert.EqualValues(t, 1, testutil.Count(t, f.db, &entity.Notification{}, "user_id = ?", f.submitter.ID))
}

func TestRejectRequiresComment(t *testing.T) {
	f := newReviewFixture(t)
	svc := f.service(false)
	ctx := context.Background()

	for _, comment := range []*string{nil, strPtr(""), strPtr("   ")} {
		_, err := svc.ChangeIdeaStatus(ctx, f.idea.ID, f.first.ID, dto.ChangeStatusRequest{Status: "Rejected", ReviewComment: comment})
		assert.ErrorIs(t, err, ErrRejectionComment)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	}

	var idea entity.Idea
	require.NoError(t, f.db.First(&idea, "id = ?", f.idea.ID).Error)
	assert.Equal(t, entity.IdeaUnderReview, idea.Status)
	assert.Nil(t, idea.ReviewedByUserID)
}

func TestChangeStatusInputErrors(t *testing.T) {
	f := newReviewFixture(t)
	svc := f.service(false)
	ctx := context.Background()

	_, err := svc.ChangeIdeaStatus(ctx, f.idea.ID, f.first.ID, dto.ChangeStatusRequest{Status: "Pending"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.ChangeIdeaStatus(ctx, uuid.New(), f.first.ID, dto.ChangeStatusRequest{Status: "Approved"})
	assert.ErrorIs(t, err, ErrIdeaNotFound)

	_, err = svc.ChangeIdeaStatus(ctx, f.idea.ID, uuid.New(), dto.ChangeStatusRequest{Status: "Approved"})
	assert.ErrorIs(t, err, ErrManagerNotFound)
}

func TestApprovalNotificationIsOptional(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.service(true).ChangeIdeaStatus(ctx, f.idea.ID, f.first.ID, dto.ChangeStatusRequest{Status: "Approved"})
	require.NoError(t, err)

	var n entity.Notification
	require.NoError(t, f.db.First(&n, "user_id = ?", f.submitter.ID).Error)
	assert.Equal(t, `Your idea "Four day week" has been approved by Mia Manager`, n.Message)
}

func TestSubmitFeedbackLeavesStatusAlone(t *testing.T) {
	f := newReviewFixture(t)
	svc := f.service(false)
	ctx := context.Background()

	_, err := svc.SubmitFeedback(ctx, f.idea.ID, f.first.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyFeedback)

	_, err = svc.SubmitFeedback(ctx, uuid.New(), f.first.ID, "ok")
	assert.ErrorIs(t, err, ErrIdeaNotFound)

	_, err = svc.SubmitFeedback(ctx, f.idea.ID, uuid.New(), "ok")
	assert.ErrorIs(t, err, ErrManagerNotFound)

	first, err := svc.SubmitFeedback(ctx, f.idea.ID, f.first.ID, "Promising")
	require.NoError(t, err)
	assert.Equal(t, "Mia Manager", first.ReviewerName)
	_, err = svc.SubmitFeedback(ctx, f.idea.ID, f.second.ID, "Needs costing")
	require.NoError(t, err)

	detail, err := svc.GetIdeaForReview(ctx, f.idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "UnderReview", detail.Status)
	require.Len(t, detail.Reviews, 2)
	assert.Equal(t, "Promising", detail.Reviews[0].Feedback)

	reviews, err := svc.GetReviewsForIdea(ctx, f.idea.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	mine, err := svc.GetMyReviews(ctx, f.second.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Needs costing", mine[0].Feedback)

	got, err := svc.GetReviewByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Promising", got.Feedback)

	_, err = svc.GetReviewByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestGetIdeasByStatus(t *testing.T) {
	f := newReviewFixture(t)
	svc := f.service(false)
	ctx := context.Background()

	_, err := svc.ChangeIdeaStatus(ctx, f.idea.ID, f.first.ID, dto.ChangeStatusRequest{Status: "approved"})
	require.NoError(t, err)

	approved, err := svc.GetIdeasByStatus(ctx, "APPROVED")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, f.idea.ID, approved[0].ID)

	pending, err := svc.GetIdeasByStatus(ctx, "underreview")
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = svc.GetIdeasByStatus(ctx, "draft")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	all, err := svc.GetAllIdeasForReview(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
