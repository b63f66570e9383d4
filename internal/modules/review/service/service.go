package service

import (
	"context"
	"errors"
	"strings"
	"time"

	sharedDto "anoa.com/ideaboard/internal/dto"
	"anoa.com/ideaboard/internal/entity"
	notifService "anoa.com/ideaboard/internal/modules/notification/service"
	"anoa.com/ideaboard/internal/modules/review/dto"
	"anoa.com/ideaboard/internal/modules/review/repository"
	"anoa.com/ideaboard/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrIdeaNotFound     = apperror.New(apperror.ErrNotFound, "Idea not found")
	ErrManagerNotFound  = apperror.New(apperror.ErrNotFound, "Manager not found")
	ErrReviewNotFound   = apperror.New(apperror.ErrNotFound, "Review not found")
	ErrRejectionComment = apperror.New(apperror.ErrInvalidInput, "Review comment is required when rejecting an idea")
	ErrEmptyFeedback    = apperror.New(apperror.ErrInvalidInput, "Feedback cannot be empty")
	ErrReviewerLocked   = apperror.New(apperror.ErrForbidden, "Only the manager who first reviewed this idea can change its status")
)

// DecisionNotifier tells a submitter about a status change.
type DecisionNotifier interface {
	NotifyReviewDecision(ctx context.Context, decision notifService.ReviewDecision) error
}

type ReviewService interface {
	ChangeIdeaStatus(ctx context.Context, ideaID, managerID uuid.UUID, req dto.ChangeStatusRequest) (*sharedDto.IdeaDetailResponse, error)
	SubmitFeedback(ctx context.Context, ideaID, managerID uuid.UUID, feedback string) (*sharedDto.ReviewResponse, error)
	GetAllIdeasForReview(ctx context.Context) ([]sharedDto.IdeaDetailResponse, error)
	GetIdeasByStatus(ctx context.Context, status string) ([]sharedDto.IdeaDetailResponse, error)
	GetIdeaForReview(ctx context.Context, ideaID uuid.UUID) (*sharedDto.IdeaDetailResponse, error)
	GetReviewByID(ctx context.Context, id uuid.UUID) (*sharedDto.ReviewResponse, error)
	GetReviewsForIdea(ctx context.Context, ideaID uuid.UUID) ([]sharedDto.ReviewResponse, error)
	GetMyReviews(ctx context.Context, managerID uuid.UUID) ([]sharedDto.ReviewResponse, error)
}

type reviewService struct {
	repo             repository.ReviewRepository
	notifier         DecisionNotifier
	notifyOnApproval bool
	logger           *zap.Logger
}

func NewReviewService(repo repository.ReviewRepository, notifier DecisionNotifier, notifyOnApproval bool, logger *zap.Logger) ReviewService {
	return &reviewService{
		repo:             repo,
		notifier:         notifier,
		notifyOnApproval: notifyOnApproval,
		logger:           logger,
	}
}

// ChangeIdeaStatus moves an idea to a new status. The first move out of
// UnderReview is open to any manager; later moves belong to that reviewer.
func (s *reviewService) ChangeIdeaStatus(ctx context.Context, ideaID, managerID uuid.UUID, req dto.ChangeStatusRequest) (*sharedDto.IdeaDetailResponse, error) {
	var decision *notifService.ReviewDecision

	err := s.repo.Transaction(ctx, func(repo repository.ReviewRepository) error {
		idea, err := repo.FindIdea(ctx, ideaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIdeaNotFound
			}
			return err
		}

		status, err := entity.ParseIdeaStatus(req.Status)
		if err != nil {
			return apperror.New(err, "Invalid status. Must be 'Rejected', 'UnderReview', or 'Approved'")
		}

		var comment *string
		if req.ReviewComment != nil {
			if trimmed := strings.TrimSpace(*req.ReviewComment); trimmed != "" {
				comment = &trimmed
			}
		}
		if status == entity.IdeaRejected && comment == nil {
			return ErrRejectionComment
		}

		if idea.Status != entity.IdeaUnderReview &&
			(idea.ReviewedByUserID == nil || *idea.ReviewedByUserID != managerID) {
			return ErrReviewerLocked
		}

		manager, err := repo.FindUser(ctx, managerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrManagerNotFound
			}
			return err
		}

		idea.Status = status
		idea.ReviewedByUserID = &manager.ID
		idea.ReviewedByUserName = &manager.Name
		idea.ReviewComment = comment
		idea.UpdatedAt = time.Now().UTC()

		if err := repo.SaveIdeaDecision(ctx, idea); err != nil {
			return err
		}

		if status == entity.IdeaRejected || (status == entity.IdeaApproved && s.notifyOnApproval) {
			decision = &notifService.ReviewDecision{
				IdeaID:       idea.ID,
				Title:        idea.Title,
				SubmitterID:  idea.SubmittedByUserID,
				ReviewerID:   manager.ID,
				ReviewerName: manager.Name,
				Status:       status,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decision != nil {
		if err := s.notifier.NotifyReviewDecision(ctx, *decision); err != nil {
			s.logger.Error("review decision notification failed", zap.Stringer("idea_id", ideaID), zap.Error(err))
		}
	}

	s.logger.Info("idea status changed",
		zap.Stringer("idea_id", ideaID),
		zap.Stringer("manager_id", managerID),
		zap.String("status", req.Status),
	)

	return s.GetIdeaForReview(ctx, ideaID)
}

// SubmitFeedback appends a review entry without touching the idea status.
func (s *reviewService) SubmitFeedback(ctx context.Context, ideaID, managerID uuid.UUID, feedback string) (*sharedDto.ReviewResponse, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, ErrEmptyFeedback
	}

	if _, err := s.repo.FindIdea(ctx, ideaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	manager, err := s.repo.FindUser(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, err
	}

	review := &entity.Review{
		IdeaID:     ideaID,
		ReviewerID: managerID,
		Feedback:   feedback,
		ReviewDate: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	review.Reviewer = *manager
	res := sharedDto.ToReviewResponse(review)
	return &res, nil
}

func (s *reviewService) GetAllIdeasForReview(ctx context.Context) ([]sharedDto.IdeaDetailResponse, error) {
	ideas, err := s.repo.FindIdeas(ctx)
	if err != nil {
		return nil, err
	}
	return sharedDto.ToIdeaDetailResponses(ideas), nil
}

func (s *reviewService) GetIdeasByStatus(ctx context.Context, status string) ([]sharedDto.IdeaDetailResponse, error) {
	parsed, err := entity.ParseIdeaStatus(status)
	if err != nil {
		return nil, apperror.New(err, "Invalid status. Must be 'Rejected', 'UnderReview', or 'Approved'")
	}

	ideas, err := s.repo.FindIdeasByStatus(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return sharedDto.ToIdeaDetailResponses(ideas), nil
}

func (s *reviewService) GetIdeaForReview(ctx context.Context, ideaID uuid.UUID) (*sharedDto.IdeaDetailResponse, error) {
	idea, err := s.repo.FindIdeaDetail(ctx, ideaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	res := sharedDto.ToIdeaDetailResponse(idea)
	return &res, nil
}

func (s *reviewService) GetReviewByID(ctx context.Context, id uuid.UUID) (*sharedDto.ReviewResponse, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	res := sharedDto.ToReviewResponse(review)
	return &res, nil
}

func (s *reviewService) GetReviewsForIdea(ctx context.Context, ideaID uuid.UUID) ([]sharedDto.ReviewResponse, error) {
	if _, err := s.repo.FindIdea(ctx, ideaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	reviews, err := s.repo.FindByIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	return toReviewResponses(reviews), nil
}

func (s *reviewService) GetMyReviews(ctx context.Context, managerID uuid.UUID) ([]sharedDto.ReviewResponse, error) {
	reviews, err := s.repo.FindByReviewer(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return toReviewResponses(reviews), nil
}

func toReviewResponses(reviews []*entity.Review) []sharedDto.ReviewResponse {
	res := make([]sharedDto.ReviewResponse, len(reviews))
	for i, r := range reviews {
		res[i] = sharedDto.ToReviewResponse(r)
	}
	return res
}
