package repository

import (
	"context"

	"anoa.com/ideaboard/internal/entity"
	ideaRepo "anoa.com/ideaboard/internal/modules/idea/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	// FindIdea locks the idea row on postgres when called inside Transaction.
	FindIdea(ctx context.Context, id uuid.UUID) (*entity.Idea, error)
	FindIdeaDetail(ctx context.Context, id uuid.UUID) (*entity.Idea, error)
	FindIdeas(ctx context.Context) ([]*entity.Idea, error)
	FindIdeasByStatus(ctx context.Context, status entity.IdeaStatus) ([]*entity.Idea, error)
	SaveIdeaDecision(ctx context.Context, idea *entity.Idea) error
	FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]*entity.Review, error)
	FindByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]*entity.Review, error)
	Transaction(ctx context.Context, fn func(repo ReviewRepository) error) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Transaction(ctx context.Context, fn func(repo ReviewRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&reviewRepository{db: tx})
	})
}

func (r *reviewRepository) FindIdea(ctx context.Context, id uuid.UUID) (*entity.Idea, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var idea entity.Idea
	if err := q.First(&idea, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *reviewRepository) FindIdeaDetail(ctx context.Context, id uuid.UUID) (*entity.Idea, error) {
	var idea entity.Idea
	if err := ideaRepo.WithDetails(r.db.WithContext(ctx)).First(&idea, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *reviewRepository) FindIdeas(ctx context.Context) ([]*entity.Idea, error) {
	var ideas []*entity.Idea
	err := ideaRepo.WithDetails(r.db.WithContext(ctx)).
		Order("submitted_date desc").
		Find(&ideas).Error
	return ideas, err
}

func (r *reviewRepository) FindIdeasByStatus(ctx context.Context, status entity.IdeaStatus) ([]*entity.Idea, error) {
	var ideas []*entity.Idea
	err := ideaRepo.WithDetails(r.db.WithContext(ctx)).
		Where("status = ?", status).
		Order("submitted_date desc").
		Find(&ideas).Error
	return ideas, err
}

func (r *reviewRepository) SaveIdeaDecision(ctx context.Context, idea *entity.Idea) error {
	return r.db.WithContext(ctx).
		Model(&entity.Idea{}).
		Where("id = ?", idea.ID).
		Updates(map[string]any{
			"status":                idea.Status,
			"reviewed_by_user_id":   idea.ReviewedByUserID,
			"reviewed_by_user_name": idea.ReviewedByUserName,
			"review_comment":        idea.ReviewComment,
			"updated_at":            idea.UpdatedAt,
		}).Error
}

func (r *reviewRepository) FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	if err := r.db.WithContext(ctx).Preload("Reviewer").First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]*entity.Review, error) {
	var reviews []*entity.Review
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("idea_id = ?", ideaID).
		Order("review_date asc").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) FindByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]*entity.Review, error) {
	var reviews []*entity.Review
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("reviewer_id = ?", reviewerID).
		Order("review_date desc").
		Find(&reviews).Error
	return reviews, err
}
