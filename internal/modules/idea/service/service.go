package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"anoa.com/ideaboard/internal/authz"
	sharedDto "anoa.com/ideaboard/internal/dto"
	"anoa.com/ideaboard/internal/entity"
	categoryRepo "anoa.com/ideaboard/internal/modules/category/repository"
	"anoa.com/ideaboard/internal/modules/idea/dto"
	"anoa.com/ideaboard/internal/modules/idea/repository"
	search "anoa.com/ideaboard/internal/modules/search/service"
	userRepo "anoa.com/ideaboard/internal/modules/user/repository"
	"anoa.com/ideaboard/pkg/apperror"
	commonDto "anoa.com/ideaboard/pkg/dto"
	"anoa.com/ideaboard/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	submitIdeaAction = "submit_idea"

	minTitleLength       = 5
	minDescriptionLength = 10

	msgNotOwnerUpdate = "You can only update your own ideas"
	msgNotOwnerDelete = "You can only delete your own ideas"
)

var (
	ErrIdeaNotFound     = apperror.New(apperror.ErrNotFound, "Idea not found")
	ErrCategoryNotFound = apperror.New(apperror.ErrNotFound, "Category not found")
	ErrCategoryInactive = apperror.New(apperror.ErrInvalidInput, "Selected category is inactive")
	ErrUserNotFound     = apperror.New(apperror.ErrNotFound, "User not found")
	ErrIdeaNotDeletable = apperror.New(apperror.ErrInvalidInput, "Only ideas that are still under review can be deleted")
	ErrSubmitTooSoon    = apperror.New(apperror.ErrRateLimitExceeded, "You are submitting ideas too quickly. Please wait before submitting another.")
	ErrTitleTooShort    = apperror.New(apperror.ErrInvalidInput, fmt.Sprintf("Title must be at least %d characters", minTitleLength))
	ErrDescTooShort     = apperror.New(apperror.ErrInvalidInput, fmt.Sprintf("Description must be at least %d characters", minDescriptionLength))
)

// NewIdeaNotifier fans out the new-idea notification.
type NewIdeaNotifier interface {
	NotifyNewIdea(ctx context.Context, ideaID uuid.UUID, title string, submitterID uuid.UUID) error
}

type IdeaService interface {
	SubmitIdea(ctx context.Context, userID uuid.UUID, req dto.SubmitIdeaRequest) (*sharedDto.IdeaResponse, error)
	UpdateIdea(ctx context.Context, ideaID, userID uuid.UUID, req dto.UpdateIdeaRequest) (*sharedDto.IdeaResponse, error)
	DeleteIdea(ctx context.Context, ideaID, userID uuid.UUID) error
	GetAllIdeas(ctx context.Context, query commonDto.PaginationQuery) (*dto.PaginatedIdeaResponse, error)
	GetMyIdeas(ctx context.Context, userID uuid.UUID) ([]sharedDto.IdeaResponse, error)
	GetIdeaByID(ctx context.Context, id uuid.UUID) (*sharedDto.IdeaResponse, error)
	SearchIdeas(ctx context.Context, query string, limit int) ([]sharedDto.IdeaResponse, error)
}

type ideaService struct {
	repo         repository.IdeaRepository
	categoryRepo categoryRepo.CategoryRepository
	userRepo     userRepo.UserRepository
	notifier     NewIdeaNotifier
	search       search.IdeaIndex
	redisClient  *redis.Client
	rateLimit    time.Duration
	logger       *zap.Logger
}

// NewIdeaService accepts a nil search index and a nil redis client.
func NewIdeaService(
	repo repository.IdeaRepository,
	categoryRepo categoryRepo.CategoryRepository,
	userRepo userRepo.UserRepository,
	notifier NewIdeaNotifier,
	search search.IdeaIndex,
	redisClient *redis.Client,
	rateLimit time.Duration,
	logger *zap.Logger,
) IdeaService {
	return &ideaService{
		repo:         repo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		search:       search,
		redisClient:  redisClient,
		rateLimit:    rateLimit,
		logger:       logger,
	}
}

func (s *ideaService) SubmitIdea(ctx context.Context, userID uuid.UUID, req dto.SubmitIdeaRequest) (*sharedDto.IdeaResponse, error) {
	title, description, err := cleanIdeaText(req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	allowed, err := ratelimit.CheckAndSet(ctx, s.redisClient, userID, submitIdeaAction, s.rateLimit)
	if err != nil {
		s.logger.Warn("rate limit check failed", zap.Error(err))
		allowed = true
	}
	if !allowed {
		return nil, ErrSubmitTooSoon
	}

	idea := &entity.Idea{
		Title:             title,
		Description:       description,
		CategoryID:        req.CategoryID,
		SubmittedByUserID: userID,
		SubmittedDate:     time.Now().UTC(),
		Status:            entity.IdeaUnderReview,
	}

	if err := s.repo.Create(ctx, idea); err != nil {
		if clearErr := ratelimit.Clear(ctx, s.redisClient, userID, submitIdeaAction); clearErr != nil {
			s.logger.Warn("failed to clear rate limit", zap.Error(clearErr))
		}
		return nil, err
	}

	if err := s.notifier.NotifyNewIdea(ctx, idea.ID, idea.Title, userID); err != nil {
		s.logger.Error("new idea notification failed", zap.Stringer("idea_id", idea.ID), zap.Error(err))
	}

	return s.loadAndIndex(ctx, idea.ID)
}

func (s *ideaService) UpdateIdea(ctx context.Context, ideaID, userID uuid.UUID, req dto.UpdateIdeaRequest) (*sharedDto.IdeaResponse, error) {
	idea, err := s.find(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireOwnerOrRole(idea.SubmittedByUserID, authz.Principal{ID: userID}, msgNotOwnerUpdate); err != nil {
		return nil, err
	}

	title, description, err := cleanIdeaText(req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	idea.Title = title
	idea.Description = description
	idea.CategoryID = req.CategoryID

	if err := s.repo.Update(ctx, idea); err != nil {
		return nil, err
	}

	return s.loadAndIndex(ctx, idea.ID)
}

// cleanIdeaText trims both fields and applies the length minimums to what will be stored.
func cleanIdeaText(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(title) < minTitleLength {
		return "", "", ErrTitleTooShort
	}
	if utf8.RuneCountInString(description) < minDescriptionLength {
		return "", "", ErrDescTooShort
	}
	return title, description, nil
}

// DeleteIdea is allowed for the submitter while the idea is still UnderReview.
func (s *ideaService) DeleteIdea(ctx context.Context, ideaID, userID uuid.UUID) error {
	idea, err := s.find(ctx, ideaID)
	if err != nil {
		return err
	}

	if err := authz.RequireOwnerOrRole(idea.SubmittedByUserID, authz.Principal{ID: userID}, msgNotOwnerDelete); err != nil {
		return err
	}

	if idea.Status != entity.IdeaUnderReview {
		return ErrIdeaNotDeletable
	}

	if err := s.repo.Delete(ctx, ideaID); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteIdea(ctx, ideaID); err != nil {
			s.logger.Warn("failed to remove idea from search index", zap.Stringer("idea_id", ideaID), zap.Error(err))
		}
	}
	return nil
}

func (s *ideaService) GetAllIdeas(ctx context.Context, query commonDto.PaginationQuery) (*dto.PaginatedIdeaResponse, error) {
	limit, offset := query.Resolve(20)

	ideas, total, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedIdeaResponse{
		Data: sharedDto.ToIdeaResponses(ideas),
		Meta: commonDto.NewPaginationMeta(query.Page, limit, total),
	}, nil
}

func (s *ideaService) GetMyIdeas(ctx context.Context, userID uuid.UUID) ([]sharedDto.IdeaResponse, error) {
	ideas, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sharedDto.ToIdeaResponses(ideas), nil
}

func (s *ideaService) GetIdeaByID(ctx context.Context, id uuid.UUID) (*sharedDto.IdeaResponse, error) {
	idea, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	res := sharedDto.ToIdeaResponse(idea)
	return &res, nil
}

// SearchIdeas prefers the full-text index and falls back to a database match.
func (s *ideaService) SearchIdeas(ctx context.Context, query string, limit int) ([]sharedDto.IdeaResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "Search query cannot be empty")
	}
	if limit <= 0 {
		limit = 20
	}

	if s.search != nil {
		ids, err := s.search.SearchIdeas(ctx, query, limit)
		if err == nil {
			ideas, err := s.repo.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return sharedDto.ToIdeaResponses(ideas), nil
		}
		s.logger.Warn("search index unavailable, falling back to database", zap.Error(err))
	}

	ideas, err := s.repo.SearchText(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return sharedDto.ToIdeaResponses(ideas), nil
}

func (s *ideaService) checkCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if !category.IsActive {
		return ErrCategoryInactive
	}
	return nil
}

func (s *ideaService) find(ctx context.Context, id uuid.UUID) (*entity.Idea, error) {
	idea, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	return idea, nil
}

func (s *ideaService) loadAndIndex(ctx context.Context, id uuid.UUID) (*sharedDto.IdeaResponse, error) {
	idea, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexIdea(ctx, idea); err != nil {
			s.logger.Warn("failed to index idea", zap.Stringer("idea_id", idea.ID), zap.Error(err))
		}
	}

	res := sharedDto.ToIdeaResponse(idea)
	return &res, nil
}
