package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"anoa.com/ideaboard/internal/authz"
	sharedDto "anoa.com/ideaboard/internal/dto"
	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/modules/comment/repository"
	userRepo "anoa.com/ideaboard/internal/modules/user/repository"
	"anoa.com/ideaboard/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyText       = apperror.New(apperror.ErrInvalidInput, "Comment text cannot be empty")
	ErrIdeaNotFound    = apperror.New(apperror.ErrNotFound, "Idea not found")
	ErrUserNotFound    = apperror.New(apperror.ErrNotFound, "User not found")
	ErrCommentNotFound = apperror.New(apperror.ErrNotFound, "Comment not found")
)

type CommentService interface {
	AddComment(ctx context.Context, ideaID, userID uuid.UUID, text string) (*sharedDto.CommentResponse, error)
	GetCommentsForIdea(ctx context.Context, ideaID uuid.UUID) ([]sharedDto.CommentResponse, error)
	GetCommentByID(ctx context.Context, id uuid.UUID) (*sharedDto.CommentResponse, error)
	UpdateComment(ctx context.Context, id, userID uuid.UUID, text string) (*sharedDto.CommentResponse, error)
	DeleteComment(ctx context.Context, id, userID uuid.UUID) error
}

type commentService struct {
	repo     repository.CommentRepository
	userRepo userRepo.UserRepository
}

func NewCommentService(repo repository.CommentRepository, userRepo userRepo.UserRepository) CommentService {
	return &commentService{repo: repo, userRepo: userRepo}
}

func (s *commentService) AddComment(ctx context.Context, ideaID, userID uuid.UUID, text string) (*sharedDto.CommentResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	exists, err := s.repo.IdeaExists(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrIdeaNotFound
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	comment := &entity.Comment{
		IdeaID:    ideaID,
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	comment.User = *user
	res := sharedDto.ToCommentResponse(comment)
	return &res, nil
}

func (s *commentService) GetCommentsForIdea(ctx context.Context, ideaID uuid.UUID) ([]sharedDto.CommentResponse, error) {
	exists, err := s.repo.IdeaExists(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrIdeaNotFound
	}

	comments, err := s.repo.FindByIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	res := make([]sharedDto.CommentResponse, len(comments))
	for i, c := range comments {
		res[i] = sharedDto.ToCommentResponse(c)
	}
	return res, nil
}

func (s *commentService) GetCommentByID(ctx context.Context, id uuid.UUID) (*sharedDto.CommentResponse, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	res := sharedDto.ToCommentResponse(comment)
	return &res, nil
}

func (s *commentService) UpdateComment(ctx context.Context, id, userID uuid.UUID, text string) (*sharedDto.CommentResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireOwnerOrRole(comment.UserID, authz.Principal{ID: userID}, "You can only update your own comments"); err != nil {
		return nil, err
	}

	comment.Text = text
	comment.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}

	res := sharedDto.ToCommentResponse(comment)
	return &res, nil
}

func (s *commentService) DeleteComment(ctx context.Context, id, userID uuid.UUID) error {
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := authz.RequireOwnerOrRole(comment.UserID, authz.Principal{ID: userID}, "You can only delete your own comments"); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *commentService) find(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
