package repository

import (
	"context"
	"errors"

	"anoa.com/ideaboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository interface {
	FindIdea(ctx context.Context, id uuid.UUID) (*entity.Idea, error)
	FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// FindUserVote locks the row on postgres when called inside Transaction.
	FindUserVote(ctx context.Context, ideaID, userID uuid.UUID) (*entity.Vote, error)
	FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]*entity.Vote, error)
	Create(ctx context.Context, vote *entity.Vote) error
	Update(ctx context.Context, vote *entity.Vote) error
	Delete(ctx context.Context, vote *entity.Vote) error
	CreateComment(ctx context.Context, comment *entity.Comment) error
	// DeleteLatestComment removes the newest comment by userID on ideaID, if any.
	DeleteLatestComment(ctx context.Context, ideaID, userID uuid.UUID) error
	Transaction(ctx context.Context, fn func(repo VoteRepository) error) error
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Transaction(ctx context.Context, fn func(repo VoteRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&voteRepository{db: tx})
	})
}

func (r *voteRepository) FindIdea(ctx context.Context, id uuid.UUID) (*entity.Idea, error) {
	var idea entity.Idea
	if err := r.db.WithContext(ctx).First(&idea, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *voteRepository) FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *voteRepository) FindUserVote(ctx context.Context, ideaID, userID uuid.UUID) (*entity.Vote, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var vote entity.Vote
	if err := q.Where("idea_id = ? AND user_id = ?", ideaID, userID).First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepository) FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]*entity.Vote, error) {
	var votes []*entity.Vote
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("idea_id = ?", ideaID).
		Order("created_at asc").
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) Create(ctx context.Context, vote *entity.Vote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(vote).Error
}

func (r *voteRepository) Update(ctx context.Context, vote *entity.Vote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(vote).Error
}

func (r *voteRepository) Delete(ctx context.Context, vote *entity.Vote) error {
	return r.db.WithContext(ctx).Delete(&entity.Vote{}, "id = ?", vote.ID).Error
}

func (r *voteRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *voteRepository) DeleteLatestComment(ctx context.Context, ideaID, userID uuid.UUID) error {
	var comment entity.Comment
	err := r.db.WithContext(ctx).
		Where("idea_id = ? AND user_id = ?", ideaID, userID).
		Order("created_at desc, id desc").
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&entity.Comment{}, "id = ?", comment.ID).Error
}
