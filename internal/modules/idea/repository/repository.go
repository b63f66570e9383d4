package repository

import (
	"context"
	"strings"

	"anoa.com/ideaboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WithDetails preloads everything the idea projections read.
func WithDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("SubmittedBy").
		Preload("Votes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Comments.User").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("review_date asc")
		}).
		Preload("Reviews.Reviewer")
}

type IdeaRepository interface {
	Create(ctx context.Context, idea *entity.Idea) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Idea, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.Idea, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Idea, int64, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Idea, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Idea, error)
	SearchText(ctx context.Context, term string, limit int) ([]*entity.Idea, error)
	Update(ctx context.Context, idea *entity.Idea) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ideaRepository struct {
	db *gorm.DB
}

func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(ctx context.Context, idea *entity.Idea) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(idea).Error
}

func (r *ideaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Idea, error) {
	var idea entity.Idea
	if err := r.db.WithContext(ctx).First(&idea, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.Idea, error) {
	var idea entity.Idea
	if err := WithDetails(r.db.WithContext(ctx)).First(&idea, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Idea, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Idea{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ideas []*entity.Idea
	if err := WithDetails(r.db.WithContext(ctx)).
		Order("submitted_date desc").
		Limit(limit).
		Offset(offset).
		Find(&ideas).Error; err != nil {
		return nil, 0, err
	}
	return ideas, total, nil
}

func (r *ideaRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Idea, error) {
	var ideas []*entity.Idea
	if err := WithDetails(r.db.WithContext(ctx)).
		Where("submitted_by_user_id = ?", userID).
		Order("submitted_date desc").
		Find(&ideas).Error; err != nil {
		return nil, err
	}
	return ideas, nil
}

// FindByIDs returns the ideas in the order of ids; unknown ids are skipped.
func (r *ideaRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Idea, error) {
	if len(ids) == 0 {
		return []*entity.Idea{}, nil
	}

	var ideas []*entity.Idea
	if err := WithDetails(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&ideas).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Idea, len(ideas))
	for _, i := range ideas {
		byID[i.ID] = i
	}
	ordered := make([]*entity.Idea, 0, len(ideas))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			ordered = append(ordered, i)
		}
	}
	return ordered, nil
}

func (r *ideaRepository) SearchText(ctx context.Context, term string, limit int) ([]*entity.Idea, error) {
	like := "%" + strings.ToLower(term) + "%"
	var ideas []*entity.Idea
	if err := WithDetails(r.db.WithContext(ctx)).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like).
		Order("submitted_date desc").
		Limit(limit).
		Find(&ideas).Error; err != nil {
		return nil, err
	}
	return ideas, nil
}

func (r *ideaRepository) Update(ctx context.Context, idea *entity.Idea) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(idea).Error
}

// Delete removes the idea together with its votes, comments, reviews and notifications.
func (r *ideaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&entity.Notification{}, &entity.Vote{}, &entity.Comment{}, &entity.Review{}} {
			if err := tx.Where("idea_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entity.Idea{}, "id = ?", id).Error
	})
}
