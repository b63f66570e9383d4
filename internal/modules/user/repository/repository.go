package repository

import (
	"context"
	"strings"

	"anoa.com/ideaboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// adminSeatLockKey serialises admin registrations on postgres.
const adminSeatLockKey = 7_301_001

type UserActivity struct {
	Ideas    int64
	Comments int64
	Votes    int64
	Reviews  int64
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	FindByRole(ctx context.Context, role entity.UserRole) ([]*entity.User, error)
	FindByStatus(ctx context.Context, status entity.UserStatus) ([]*entity.User, error)
	Search(ctx context.Context, term string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role entity.UserRole) (int64, error)
	CountByStatus(ctx context.Context, status entity.UserStatus) (int64, error)
	CountActivity(ctx context.Context, id uuid.UUID) (*UserActivity, error)
	// LockAdminSeats blocks concurrent admin-count checks until the surrounding transaction ends.
	LockAdminSeats(ctx context.Context) error
	Transaction(ctx context.Context, fn func(repo UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Transaction(ctx context.Context, fn func(repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

func (r *userRepository) LockAdminSeats(ctx context.Context) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", adminSeatLockKey).Error
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).Order("name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByRole(ctx context.Context, role entity.UserRole) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByStatus(ctx context.Context, status entity.UserStatus) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Search(ctx context.Context, term string) ([]*entity.User, error) {
	like := "%" + strings.ToLower(term) + "%"
	var users []*entity.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like).
		Order("name asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role entity.UserRole) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) CountByStatus(ctx context.Context, status entity.UserStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) CountActivity(ctx context.Context, id uuid.UUID) (*UserActivity, error) {
	db := r.db.WithContext(ctx)
	var a UserActivity
	if err := db.Model(&entity.Idea{}).Where("submitted_by_user_id = ?", id).Count(&a.Ideas).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Comment{}).Where("user_id = ?", id).Count(&a.Comments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Vote{}).Where("user_id = ?", id).Count(&a.Votes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Review{}).Where("reviewer_id = ?", id).Count(&a.Reviews).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
