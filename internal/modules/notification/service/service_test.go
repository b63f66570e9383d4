package service

import (
	"context"
	"testing"

	"anoa.com/ideaboard/internal/entity"
	notifRepo "anoa.com/ideaboard/internal/modules/notification/repository"
	"anoa.com/ideaboard/internal/testutil"
	commonDto "anoa.com/ideaboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyNewIdeaFansOutToOtherActiveUsers(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(notifRepo.NewNotificationRepository(db))
	ctx := context.Background()

	submitter := testutil.CreateUser(t, db, "Sam Submitter", entity.RoleEmployee, entity.StatusActive)
	peer := testutil.CreateUser(t, db, "Pat Peer", entity.RoleEmployee, entity.StatusActive)
	manager := testutil.CreateUser(t, db, "Max Manager", entity.RoleManager, entity.StatusActive)
	dormant := testutil.CreateUser(t, db, "Dan Dormant", entity.RoleManager, entity.StatusInactive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	idea := testutil.CreateIdea(t, db, "Standing desks", cat.ID, submitter.ID)

	require.NoError(t, svc.NotifyNewIdea(ctx, idea.ID, idea.Title, submitter.ID))

	for _, u := range []*entity.User{peer, manager} {
		assert.EqualValues(t, 1, testutil.Count(t, db, &entity.Notification{}, "user_id = ?", u.ID))
	}
	for _, u := range []*entity.User{submitter, dormant} {
		assert.Zero(t, testutil.Count(t, db, &entity.Notification{}, "user_id = ?", u.ID))
	}

	page, err := svc.GetNotifications(ctx, peer.ID, commonDto.PaginationQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "New idea submitted: Standing desks", page.Data[0].Message)
	assert.Equal(t, "NewIdea", page.Data[0].Type)
	assert.Equal(t, "Unread", page.Data[0].Status)
}

func TestNotifyReviewDecision(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(notifRepo.NewNotificationRepository(db))
	ctx := context.Background()

	submitter := testutil.CreateUser(t, db, "Sam Submitter", entity.RoleEmployee, entity.StatusActive)
	manager := testutil.CreateUser(t, db, "Max Manager", entity.RoleManager, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	idea := testutil.CreateIdea(t, db, "Standing desks", cat.ID, submitter.ID)

	require.NoError(t, svc.NotifyReviewDecision(ctx, ReviewDecision{
		IdeaID:       idea.ID,
		Title:        idea.Title,
		SubmitterID:  submitter.ID,
		ReviewerID:   manager.ID,
		ReviewerName: manager.Name,
		Status:       entity.IdeaRejected,
	}))

	var n entity.Notification
	require.NoError(t, db.First(&n, "user_id = ?", submitter.ID).Error)
	assert.Equal(t, `Your idea "Standing desks" has been rejected by Max Manager`, n.Message)
	assert.Equal(t, entity.NotificationReviewDecision, n.Type)
	require.NotNil(t, n.ReviewerID)
	assert.Equal(t, manager.ID, *n.ReviewerID)
}

func TestMarkAsRead(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(notifRepo.NewNotificationRepository(db))
	ctx := context.Background()

	submitter := testutil.CreateUser(t, db, "Sam Submitter", entity.RoleEmployee, entity.StatusActive)
	peer := testutil.CreateUser(t, db, "Pat Peer", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	for _, title := range []string{"One", "Two"} {
		idea := testutil.CreateIdea(t, db, title, cat.ID, submitter.ID)
		require.NoError(t, svc.NotifyNewIdea(ctx, idea.ID, title, submitter.ID))
	}

	count, err := svc.UnreadCount(ctx, peer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	var n entity.Notification
	require.NoError(t, db.First(&n, "user_id = ?", peer.ID).Error)

	assert.ErrorIs(t, svc.MarkAsRead(ctx, n.ID, submitter.ID), ErrNotificationNotFound)
	assert.ErrorIs(t, svc.MarkAsRead(ctx, uuid.New(), peer.ID), ErrNotificationNotFound)
	require.NoError(t, svc.MarkAsRead(ctx, n.ID, peer.ID))

	count, err = svc.UnreadCount(ctx, peer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.MarkAllAsRead(ctx, peer.ID))
	count, err = svc.UnreadCount(ctx, peer.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
