package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/modules/vote/repository"
	"anoa.com/ideaboard/internal/testutil"
	"anoa.com/ideaboard/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type voteFixture struct {
	svc  VoteService
	db   *gorm.DB
	idea *entity.Idea
	user *entity.User
}

func newVoteFixture(t *testing.T) voteFixture {
	t.Helper()
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "Owner One", entity.RoleEmployee, entity.StatusActive)
	voter := testutil.CreateUser(t, db, "Alice Voter", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	idea := testutil.CreateIdea(t, db, "Flexible hours", cat.ID, owner.ID)

	return voteFixture{
		svc:  NewVoteService(repository.NewVoteRepository(db), zap.NewNop()),
		db:   db,
		idea: idea,
		user: voter,
	}
}

func (f voteFixture) votes(t *testing.T) int64 {
	return testutil.Count(t, f.db, &entity.Vote{}, "idea_id = ? AND user_id = ?", f.idea.ID, f.user.ID)
}

func (f voteFixture) comments(t *testing.T) []entity.Comment {
	t.Helper()
	var comments []entity.Comment
	require.NoError(t, f.db.Where("idea_id = ? AND user_id = ?", f.idea.ID, f.user.ID).Find(&comments).Error)
	return comments
}

func TestUpvoteDownvoteUpvoteCycle(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	res, err := f.svc.Upvote(ctx, f.idea.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Upvote", res.VoteType)
	assert.Equal(t, "Alice Voter", res.UserName)
	assert.EqualValues(t, 1, f.votes(t))

	res, err = f.svc.Downvote(ctx, f.idea.ID, f.user.ID, "bad")
	require.NoError(t, err)
	assert.Equal(t, "Downvote", res.VoteType)
	assert.EqualValues(t, 1, f.votes(t))
	comments := f.comments(t)
	require.Len(t, comments, 1)
	assert.Equal(t, "bad", comments[0].Text)

	_, err = f.svc.Upvote(ctx, f.idea.ID, f.user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.votes(t))
	assert.Empty(t, f.comments(t))
}

func TestUpvoteConversionRemovesOnlyLatestComment(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	older := &entity.Comment{
		IdeaID:    f.idea.ID,
		UserID:    f.user.ID,
		Text:      "older",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, f.db.Create(older).Error)

	_, err := f.svc.Downvote(ctx, f.idea.ID, f.user.ID, "first reason")
	require.NoError(t, err)
	require.Len(t, f.comments(t), 2)

	_, err = f.svc.Upvote(ctx, f.idea.ID, f.user.ID)
	require.NoError(t, err)
	comments := f.comments(t)
	require.Len(t, comments, 1)
	assert.Equal(t, "older", comments[0].Text)

	_, err = f.svc.Downvote(ctx, f.idea.ID, f.user.ID, "second reason")
	require.NoError(t, err)

	var vote entity.Vote
	require.NoError(t, f.db.First(&vote, "idea_id = ? AND user_id = ?", f.idea.ID, f.user.ID).Error)
	assert.Equal(t, entity.VoteDown, vote.VoteType)

	var texts []string
	require.NoError(t, f.db.Model(&entity.Comment{}).
		Where("idea_id = ? AND user_id = ?", f.idea.ID, f.user.ID).
		Order("created_at asc").
		Pluck("text", &texts).Error)
	assert.Equal(t, []string{"older", "second reason"}, texts)
}

func TestRepeatedVoteIsRejected(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upvote(ctx, f.idea.ID, f.user.ID)
	require.NoError(t, err)
	_, err = f.svc.Upvote(ctx, f.idea.ID, f.user.ID)
	assert.ErrorIs(t, err, ErrAlreadyUpvoted)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.svc.Downvote(ctx, f.idea.ID, f.user.ID, "no")
	require.NoError(t, err)
	_, err = f.svc.Downvote(ctx, f.idea.ID, f.user.ID, "still no")
	assert.ErrorIs(t, err, ErrAlreadyDownvoted)

	assert.EqualValues(t, 1, f.votes(t))
	assert.Len(t, f.comments(t), 1)
}

func TestDownvoteRequiresComment(t *testing.T) {
	f := newVoteFixture(t)

	_, err := f.svc.Downvote(context.Background(), f.idea.ID, f.user.ID, "   ")
	assert.ErrorIs(t, err, ErrDownvoteNeedsReason)
	assert.Zero(t, f.votes(t))
}

func TestVoteOnMissingIdeaOrUser(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upvote(ctx, uuid.New(), f.user.ID)
	assert.ErrorIs(t, err, ErrIdeaNotFound)

	_, err = f.svc.Downvote(ctx, f.idea.ID, uuid.New(), "reason")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRemoveVote(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.RemoveVote(ctx, f.idea.ID, f.user.ID), ErrVoteNotFound)

	_, err := f.svc.Downvote(ctx, f.idea.ID, f.user.ID, "reason")
	require.NoError(t, err)
	require.NoError(t, f.svc.RemoveVote(ctx, f.idea.ID, f.user.ID))
	assert.Zero(t, f.votes(t))
	assert.Empty(t, f.comments(t))

	_, err = f.svc.Upvote(ctx, f.idea.ID, f.user.ID)
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&entity.Comment{IdeaID: f.idea.ID, UserID: f.user.ID, Text: "unrelated"}).Error)
	require.NoError(t, f.svc.RemoveVote(ctx, f.idea.ID, f.user.ID))
	assert.Len(t, f.comments(t), 1)
}

func TestVoteReads(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	status, err := f.svc.GetUserVoteStatus(ctx, f.idea.ID, f.user.ID)
	require.NoError(t, err)
	assert.False(t, status.HasVoted)
	assert.Nil(t, status.VoteType)

	_, err = f.svc.Upvote(ctx, f.idea.ID, f.user.ID)
	require.NoError(t, err)

	status, err = f.svc.GetUserVoteStatus(ctx, f.idea.ID, f.user.ID)
	require.NoError(t, err)
	assert.True(t, status.HasVoted)
	require.NotNil(t, status.VoteType)
	assert.Equal(t, "Upvote", *status.VoteType)

	votes, err := f.svc.GetVotesForIdea(ctx, f.idea.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, "Alice Voter", votes[0].UserName)
}
