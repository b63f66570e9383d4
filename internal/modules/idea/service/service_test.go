package service

import (
	"context"
	"errors"
	"testing"

	"anoa.com/ideaboard/internal/entity"
	categoryRepo "anoa.com/ideaboard/internal/modules/category/repository"
	"anoa.com/ideaboard/internal/modules/idea/dto"
	"anoa.com/ideaboard/internal/modules/idea/repository"
	search "anoa.com/ideaboard/internal/modules/search/service"
	userRepo "anoa.com/ideaboard/internal/modules/user/repository"
	"anoa.com/ideaboard/internal/testutil"
	"anoa.com/ideaboard/pkg/apperror"
	commonDto "anoa.com/ideaboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	calls []uuid.UUID
	err   error
}

func (n *recordingNotifier) NotifyNewIdea(_ context.Context, ideaID uuid.UUID, _ string, _ uuid.UUID) error {
	n.calls = append(n.calls, ideaID)
	return n.err
}

type brokenIndex struct{}

func (brokenIndex) IndexIdea(context.Context, *entity.Idea) error { return errors.New("down") }
func (brokenIndex) DeleteIdea(context.Context, uuid.UUID) error   { return errors.New("down") }
func (brokenIndex) SearchIdeas(context.Context, string, int) ([]uuid.UUID, error) {
	return nil, errors.New("down")
}

func newIdeaService(t *testing.T, index search.IdeaIndex) (IdeaService, *gorm.DB, *recordingNotifier) {
	t.Helper()
	db := testutil.NewDB(t)
	notifier := &recordingNotifier{}
	svc := NewIdeaService(
		repository.NewIdeaRepository(db),
		categoryRepo.NewCategoryRepository(db),
		userRepo.NewUserRepository(db),
		notifier,
		index,
		nil,
		0,
		zap.NewNop(),
	)
	return svc, db, notifier
}

func TestSubmitIdeaStartsUnderReview(t *testing.T) {
	svc, db, notifier := newIdeaService(t, nil)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Eve Employee", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)

	res, err := svc.SubmitIdea(ctx, user.ID, dto.SubmitIdeaRequest{
		Title:       "  Shorter standups ",
		Description: "Cap standups at ten minutes",
		CategoryID:  cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Shorter standups", res.Title)
	assert.Equal(t, string(entity.IdeaUnderReview), res.Status)
	assert.Equal(t, "Process", res.CategoryName)
	assert.Equal(t, "Eve Employee", res.SubmittedByUserName)
	assert.Zero(t, res.Upvotes)
	assert.Equal(t, []uuid.UUID{res.ID}, notifier.calls)
}

func TestSubmitIdeaRejectsBadCategory(t *testing.T) {
	svc, db, notifier := newIdeaService(t, nil)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Eve Employee", entity.RoleEmployee, entity.StatusActive)
	inactive := testutil.CreateCategory(t, db, "Old", false)
	req := dto.SubmitIdeaRequest{Title: "Some idea", Description: "Some description"}

	req.CategoryID = inactive.ID
	_, err := svc.SubmitIdea(ctx, user.ID, req)
	assert.ErrorIs(t, err, ErrCategoryInactive)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	req.CategoryID = uuid.New()
	_, err = svc.SubmitIdea(ctx, user.ID, req)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	assert.Zero(t, testutil.Count(t, db, &entity.Idea{}, ""))
	assert.Empty(t, notifier.calls)
}

func TestSubmitIdeaSurvivesNotifierFailure(t *testing.T) {
	svc, db, notifier := newIdeaService(t, brokenIndex{})
	notifier.err = errors.New("smtp down")

	user := testutil.CreateUser(t, db, "Eve Employee", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)

	_, err := svc.SubmitIdea(context.Background(), user.ID, dto.SubmitIdeaRequest{
		Title: "Idea title", Description: "Idea description", CategoryID: cat.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, testutil.Count(t, db, &entity.Idea{}, ""))
}

func TestBlankIdeaTextIsRejectedAfterTrimming(t *testing.T) {
	svc, db, notifier := newIdeaService(t, nil)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Eve Employee", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)

	_, err := svc.SubmitIdea(ctx, user.ID, dto.SubmitIdeaRequest{
		Title: "       ", Description: "Long enough description", CategoryID: cat.ID,
	})
	assert.ErrorIs(t, err, ErrTitleTooShort)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.SubmitIdea(ctx, user.ID, dto.SubmitIdeaRequest{
		Title: "Valid title", Description: "   short    ", CategoryID: cat.ID,
	})
	assert.ErrorIs(t, err, ErrDescTooShort)

	assert.Zero(t, testutil.Count(t, db, &entity.Idea{}, ""))
	assert.Empty(t, notifier.calls)

	idea := testutil.CreateIdea(t, db, "Original", cat.ID, user.ID)
	_, err = svc.UpdateIdea(ctx, idea.ID, user.ID, dto.UpdateIdeaRequest{
		Title: "Revised title", Description: "           ", CategoryID: cat.ID,
	})
	assert.ErrorIs(t, err, ErrDescTooShort)

	_, err = svc.UpdateIdea(ctx, idea.ID, user.ID, dto.UpdateIdeaRequest{
		Title: "  ab  ", Description: "Revised description", CategoryID: cat.ID,
	})
	assert.ErrorIs(t, err, ErrTitleTooShort)

	stored, err := svc.GetIdeaByID(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Title)
}

func TestUpdateAndDeleteIdeaOwnership(t *testing.T) {
	svc, db, _ := newIdeaService(t, nil)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "Owner One", entity.RoleEmployee, entity.StatusActive)
	other := testutil.CreateUser(t, db, "Other One", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	idea := testutil.CreateIdea(t, db, "Original", cat.ID, owner.ID)

	req := dto.UpdateIdeaRequest{Title: "Revised title", Description: "Revised description", CategoryID: cat.ID}

	_, err := svc.UpdateIdea(ctx, idea.ID, other.ID, req)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	res, err := svc.UpdateIdea(ctx, idea.ID, owner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Revised title", res.Title)

	assert.ErrorIs(t, svc.DeleteIdea(ctx, idea.ID, other.ID), apperror.ErrForbidden)

	require.NoError(t, db.Model(&entity.Idea{}).Where("id = ?", idea.ID).Update("status", entity.IdeaApproved).Error)
	assert.ErrorIs(t, svc.DeleteIdea(ctx, idea.ID, owner.ID), ErrIdeaNotDeletable)

	require.NoError(t, db.Model(&entity.Idea{}).Where("id = ?", idea.ID).Update("status", entity.IdeaUnderReview).Error)
	require.NoError(t, svc.DeleteIdea(ctx, idea.ID, owner.ID))

	_, err = svc.GetIdeaByID(ctx, idea.ID)
	assert.ErrorIs(t, err, ErrIdeaNotFound)
}

func TestGetAllIdeasPaginates(t *testing.T) {
	svc, db, _ := newIdeaService(t, nil)

	user := testutil.CreateUser(t, db, "Eve Employee", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	for _, title := range []string{"One", "Two", "Three"} {
		testutil.CreateIdea(t, db, title, cat.ID, user.ID)
	}

	page, err := svc.GetAllIdeas(context.Background(), commonDto.PaginationQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.EqualValues(t, 3, page.Meta.TotalItems)
	assert.Equal(t, 2, page.Meta.TotalPages)
}

func TestSearchIdeasFallsBackToDatabase(t *testing.T) {
	svc, db, _ := newIdeaService(t, brokenIndex{})
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "Eve Employee", entity.RoleEmployee, entity.StatusActive)
	cat := testutil.CreateCategory(t, db, "Process", true)
	testutil.CreateIdea(t, db, "Remote Fridays", cat.ID, user.ID)
	testutil.CreateIdea(t, db, "Bike racks", cat.ID, user.ID)

	res, err := svc.SearchIdeas(ctx, "remote", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Remote Fridays", res[0].Title)

	_, err = svc.SearchIdeas(ctx, "   ", 10)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
