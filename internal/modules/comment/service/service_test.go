package service

import (
	"context"
	"testing"

	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/modules/comment/repository"
	userRepo "anoa.com/ideaboard/internal/modules/user/repository"
	"anoa.com/ideaboard/internal/testutil"
	"anoa.com/ideaboard/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), userRepo.NewUserRepository(db))
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Carol Commenter", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	idea := testutil.CreateIdea(t, db, "Quiet rooms", cat.ID, user.ID)

	_, err := svc.AddComment(ctx, idea.ID, user.ID, " \t ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = svc.AddComment(ctx, uuid.New(), user.ID, "hello")
	assert.ErrorIs(t, err, ErrIdeaNotFound)

	_, err = svc.AddComment(ctx, idea.ID, uuid.New(), "hello")
	assert.ErrorIs(t, err, ErrUserNotFound)

	first, err := svc.AddComment(ctx, idea.ID, user.ID, " first ")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Text)
	assert.Equal(t, "Carol Commenter", first.UserName)

	_, err = svc.AddComment(ctx, idea.ID, user.ID, "second")
	require.NoError(t, err)

	comments, err := svc.GetCommentsForIdea(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}

func TestCommentOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(repository.NewCommentRepository(db), userRepo.NewUserRepository(db))
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "Carol Commenter", entity.RoleEmployee, entity.StatusActive)
	admin := testutil.CreateUser(t, db, "Adam Admin", entity.RoleAdmin, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	idea := testutil.CreateIdea(t, db, "Quiet rooms", cat.ID, author.ID)

	c, err := svc.AddComment(ctx, idea.ID, author.ID, "original")
	require.NoError(t, err)

	_, err = svc.UpdateComment(ctx, c.ID, admin.ID, "moderated")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteComment(ctx, c.ID, admin.ID), apperror.ErrForbidden)

	updated, err := svc.UpdateComment(ctx, c.ID, author.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	require.NoError(t, svc.DeleteComment(ctx, c.ID, author.ID))
	_, err = svc.GetCommentByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
