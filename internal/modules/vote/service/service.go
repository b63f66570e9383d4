package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/modules/vote/dto"
	"anoa.com/ideaboard/internal/modules/vote/repository"
	"anoa.com/ideaboard/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrIdeaNotFound        = apperror.New(apperror.ErrNotFound, "Idea not found")
	ErrUserNotFound        = apperror.New(apperror.ErrNotFound, "User not found")
	ErrVoteNotFound        = apperror.New(apperror.ErrNotFound, "Vote not found")
	ErrAlreadyUpvoted      = apperror.New(apperror.ErrConflict, "You have already upvoted this idea")
	ErrAlreadyDownvoted    = apperror.New(apperror.ErrConflict, "You have already downvoted this idea")
	ErrDownvoteNeedsReason = apperror.New(apperror.ErrInvalidInput, "Comment is mandatory when downvoting. Please provide a reason for your downvote.")
)

type VoteService interface {
	Upvote(ctx context.Context, ideaID, userID uuid.UUID) (*dto.VoteResponse, error)
	Downvote(ctx context.Context, ideaID, userID uuid.UUID, commentText string) (*dto.VoteResponse, error)
	RemoveVote(ctx context.Context, ideaID, userID uuid.UUID) error
	GetUserVoteStatus(ctx context.Context, ideaID, userID uuid.UUID) (*dto.UserVoteStatusResponse, error)
	GetVotesForIdea(ctx context.Context, ideaID uuid.UUID) ([]dto.VoteResponse, error)
}

type voteService struct {
	repo   repository.VoteRepository
	logger *zap.Logger
}

func NewVoteService(repo repository.VoteRepository, logger *zap.Logger) VoteService {
	return &voteService{repo: repo, logger: logger}
}

// Upvote casts or converts the caller's vote. Converting a downvote drops the
// justification comment that came with it.
func (s *voteService) Upvote(ctx context.Context, ideaID, userID uuid.UUID) (*dto.VoteResponse, error) {
	var res dto.VoteResponse

	err := s.repo.Transaction(ctx, func(repo repository.VoteRepository) error {
		user, err := s.loadParticipants(ctx, repo, ideaID, userID)
		if err != nil {
			return err
		}

		vote, err := findVote(ctx, repo, ideaID, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		switch {
		case vote == nil:
			vote = &entity.Vote{IdeaID: ideaID, UserID: userID, VoteType: entity.VoteUp, CreatedAt: now, UpdatedAt: now}
			if err := repo.Create(ctx, vote); err != nil {
				return mapDuplicate(err, ErrAlreadyUpvoted)
			}
		case vote.VoteType == entity.VoteUp:
			return ErrAlreadyUpvoted
		default:
			vote.VoteType = entity.VoteUp
			vote.UpdatedAt = now
			if err := repo.Update(ctx, vote); err != nil {
				return err
			}
			if err := repo.DeleteLatestComment(ctx, ideaID, userID); err != nil {
				return err
			}
		}

		vote.User = *user
		res = dto.ToVoteResponse(vote)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("idea upvoted", zap.Stringer("idea_id", ideaID), zap.Stringer("user_id", userID))
	return &res, nil
}

// Downvote always records commentText as a new comment alongside the vote.
func (s *voteService) Downvote(ctx context.Context, ideaID, userID uuid.UUID, commentText string) (*dto.VoteResponse, error) {
	commentText = strings.TrimSpace(commentText)
	if commentText == "" {
		return nil, ErrDownvoteNeedsReason
	}

	var res dto.VoteResponse

	err := s.repo.Transaction(ctx, func(repo repository.VoteRepository) error {
		user, err := s.loadParticipants(ctx, repo, ideaID, userID)
		if err != nil {
			return err
		}

		vote, err := findVote(ctx, repo, ideaID, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		switch {
		case vote == nil:
			vote = &entity.Vote{IdeaID: ideaID, UserID: userID, VoteType: entity.VoteDown, CreatedAt: now, UpdatedAt: now}
			if err := repo.Create(ctx, vote); err != nil {
				return mapDuplicate(err, ErrAlreadyDownvoted)
			}
		case vote.VoteType == entity.VoteDown:
			return ErrAlreadyDownvoted
		default:
			vote.VoteType = entity.VoteDown
			vote.UpdatedAt = now
			if err := repo.Update(ctx, vote); err != nil {
				return err
			}
		}

		comment := &entity.Comment{
			IdeaID:    ideaID,
			UserID:    userID,
			Text:      commentText,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.CreateComment(ctx, comment); err != nil {
			return err
		}

		vote.User = *user
		res = dto.ToVoteResponse(vote)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func (s *voteService) RemoveVote(ctx context.Context, ideaID, userID uuid.UUID) error {
	return s.repo.Transaction(ctx, func(repo repository.VoteRepository) error {
		vote, err := findVote(ctx, repo, ideaID, userID)
		if err != nil {
			return err
		}
		if vote == nil {
			return ErrVoteNotFound
		}

		if err := repo.Delete(ctx, vote); err != nil {
			return err
		}

		if vote.VoteType == entity.VoteDown {
			return repo.DeleteLatestComment(ctx, ideaID, userID)
		}
		return nil
	})
}

func (s *voteService) GetUserVoteStatus(ctx context.Context, ideaID, userID uuid.UUID) (*dto.UserVoteStatusResponse, error) {
	vote, err := findVote(ctx, s.repo, ideaID, userID)
	if err != nil {
		return nil, err
	}
	if vote == nil {
		return &dto.UserVoteStatusResponse{HasVoted: false}, nil
	}

	voteType := string(vote.VoteType)
	return &dto.UserVoteStatusResponse{HasVoted: true, VoteType: &voteType}, nil
}

func (s *voteService) GetVotesForIdea(ctx context.Context, ideaID uuid.UUID) ([]dto.VoteResponse, error) {
	votes, err := s.repo.FindByIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	res := make([]dto.VoteResponse, len(votes))
	for i, v := range votes {
		res[i] = dto.ToVoteResponse(v)
	}
	return res, nil
}

func (s *voteService) loadParticipants(ctx context.Context, repo repository.VoteRepository, ideaID, userID uuid.UUID) (*entity.User, error) {
	if _, err := repo.FindIdea(ctx, ideaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	user, err := repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// findVote returns nil without error when the user has not voted.
func findVote(ctx context.Context, repo repository.VoteRepository, ideaID, userID uuid.UUID) (*entity.Vote, error) {
	vote, err := repo.FindUserVote(ctx, ideaID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return vote, err
}

// A concurrent first vote lost the race on the (idea, user) unique index.
func mapDuplicate(err, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return err
}
