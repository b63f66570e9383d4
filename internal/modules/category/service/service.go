package category

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/modules/category/dto"
	"anoa.com/ideaboard/internal/modules/category/repository"
	"anoa.com/ideaboard/pkg/apperror"
	commonDto "anoa.com/ideaboard/pkg/dto"
)

var (
	ErrCategoryNotFound  = apperror.New(apperror.ErrNotFound, "Category not found")
	ErrCategoryExists    = apperror.New(apperror.ErrConflict, "Category with this name already exists")
	ErrCategoryNameTaken = apperror.New(apperror.ErrConflict, "Another category with this name already exists")
	ErrCategoryInUse     = apperror.New(apperror.ErrConflict, "Cannot delete category as it is being used by ideas")
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context, filter commonDto.CategoryFilter) ([]dto.CategoryResponse, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	ToggleCategoryStatus(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)

	exists, err := s.repo.ExistsByName(ctx, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExists
	}

	category := &entity.Category{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	res := dto.ToCategoryResponse(category)
	return &res, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context, filter commonDto.CategoryFilter) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx, strings.TrimSpace(filter.Search), filter.ActiveOnly)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, dto.ToCategoryResponse(c))
	}
	return res, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	res := dto.ToCategoryResponse(category)
	return &res, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	taken, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryNameTaken
	}

	category.Name = name
	category.Description = strings.TrimSpace(req.Description)
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryNameTaken
		}
		return nil, err
	}

	res := dto.ToCategoryResponse(category)
	return &res, nil
}

func (s *categoryService) ToggleCategoryStatus(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	category.IsActive = !category.IsActive
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	res := dto.ToCategoryResponse(category)
	return &res, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	used, err := s.repo.CountIdeas(ctx, id)
	if err != nil {
		return err
	}
	if used > 0 {
		return ErrCategoryInUse
	}

	return s.repo.Delete(ctx, id)
}

func (s *categoryService) find(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}
