package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/modules/admin/dto"
	userRepo "anoa.com/ideaboard/internal/modules/user/repository"
	userService "anoa.com/ideaboard/internal/modules/user/service"
	"anoa.com/ideaboard/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = apperror.New(apperror.ErrNotFound, "User not found")
	ErrNoSearchResults    = apperror.New(apperror.ErrNotFound, "No users found matching the search criteria")
	ErrEmptySearchTerm    = apperror.New(apperror.ErrInvalidInput, "Search term cannot be empty")
	ErrEmptyEmail         = apperror.New(apperror.ErrInvalidInput, "Email cannot be empty")
	ErrSelfDeactivation   = apperror.New(apperror.ErrForbidden, "You cannot deactivate your own account")
	ErrSelfRoleChange     = apperror.New(apperror.ErrForbidden, "You cannot change your own role")
	ErrAlreadyActive      = apperror.New(apperror.ErrConflict, "User is already active")
	ErrAlreadyInactive    = apperror.New(apperror.ErrConflict, "User is already inactive")
	ErrInvalidRoleValue   = apperror.New(apperror.ErrInvalidInput, "Invalid role. Valid values are: Employee, Manager, Admin")
	ErrInvalidStatusValue = apperror.New(apperror.ErrInvalidInput, "Invalid status. Valid values are: Active, Inactive")
)

type AdminService interface {
	GetAllUsers(ctx context.Context) ([]dto.UserResponse, error)
	GetUsersByRole(ctx context.Context, role string) ([]dto.UserResponse, error)
	GetUsersByStatus(ctx context.Context, status string) ([]dto.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*dto.UserDetailResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*dto.UserDetailResponse, error)
	SearchUsers(ctx context.Context, term string) ([]dto.UserResponse, error)
	ToggleUserStatus(ctx context.Context, id uuid.UUID, status string, currentUserID uuid.UUID) (*dto.UserChangeResponse, error)
	ActivateUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id, currentUserID uuid.UUID) (*dto.UserResponse, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role string, currentUserID uuid.UUID) (*dto.UserChangeResponse, error)
	GetStatistics(ctx context.Context) (*dto.UserStatisticsResponse, error)
}

type adminService struct {
	userRepo  userRepo.UserRepository
	maxAdmins int
}

func NewAdminService(userRepo userRepo.UserRepository, maxAdmins int) AdminService {
	return &adminService{
		userRepo:  userRepo,
		maxAdmins: maxAdmins,
	}
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponses(users), nil
}

func (s *adminService) GetUsersByRole(ctx context.Context, role string) ([]dto.UserResponse, error) {
	r, err := entity.ParseUserRole(role)
	if err != nil {
		return nil, ErrInvalidRoleValue
	}
	users, err := s.userRepo.FindByRole(ctx, r)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponses(users), nil
}

func (s *adminService) GetUsersByStatus(ctx context.Context, status string) ([]dto.UserResponse, error) {
	st, err := entity.ParseUserStatus(status)
	if err != nil {
		return nil, ErrInvalidStatusValue
	}
	users, err := s.userRepo.FindByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponses(users), nil
}

func (s *adminService) GetUserByID(ctx context.Context, id uuid.UUID) (*dto.UserDetailResponse, error) {
	user, err := s.findUser(ctx, s.userRepo, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, user)
}

func (s *adminService) GetUserByEmail(ctx context.Context, email string) (*dto.UserDetailResponse, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmptyEmail
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.detail(ctx, user)
}

func (s *adminService) SearchUsers(ctx context.Context, term string) ([]dto.UserResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearchTerm
	}
	users, err := s.userRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoSearchResults
	}
	return dto.ToUserResponses(users), nil
}

func (s *adminService) ToggleUserStatus(ctx context.Context, id uuid.UUID, status string, currentUserID uuid.UUID) (*dto.UserChangeResponse, error) {
	newStatus, err := entity.ParseUserStatus(status)
	if err != nil {
		return nil, ErrInvalidStatusValue
	}

	user, err := s.findUser(ctx, s.userRepo, id)
	if err != nil {
		return nil, err
	}

	if currentUserID == id && newStatus == entity.StatusInactive {
		return nil, ErrSelfDeactivation
	}

	oldStatus := user.Status
	user.Status = newStatus
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.UserChangeResponse{
		Message: fmt.Sprintf("User status changed from %s to %s", oldStatus, newStatus),
		User:    dto.ToUserResponse(user),
	}, nil
}

func (s *adminService) ActivateUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, s.userRepo, id)
	if err != nil {
		return nil, err
	}
	if user.Status == entity.StatusActive {
		return nil, ErrAlreadyActive
	}

	user.Status = entity.StatusActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	res := dto.ToUserResponse(user)
	return &res, nil
}

func (s *adminService) DeactivateUser(ctx context.Context, id, currentUserID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, s.userRepo, id)
	if err != nil {
		return nil, err
	}
	if currentUserID == id {
		return nil, ErrSelfDeactivation
	}
	if user.Status == entity.StatusInactive {
		return nil, ErrAlreadyInactive
	}

	user.Status = entity.StatusInactive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	res := dto.ToUserResponse(user)
	return &res, nil
}

// UpdateUserRole keeps the admin cap: promoting to Admin runs the same locked count as registration.
func (s *adminService) UpdateUserRole(ctx context.Context, id uuid.UUID, role string, currentUserID uuid.UUID) (*dto.UserChangeResponse, error) {
	newRole, err := entity.ParseUserRole(role)
	if err != nil {
		return nil, ErrInvalidRoleValue
	}
	if currentUserID == id {
		return nil, ErrSelfRoleChange
	}

	var (
		user    *entity.User
		oldRole entity.UserRole
	)
	err = s.userRepo.Transaction(ctx, func(repo userRepo.UserRepository) error {
		u, err := s.findUser(ctx, repo, id)
		if err != nil {
			return err
		}
		user = u
		oldRole = u.Role

		if newRole == entity.RoleAdmin && oldRole != entity.RoleAdmin {
			if err := repo.LockAdminSeats(ctx); err != nil {
				return err
			}
			admins, err := repo.CountByRole(ctx, entity.RoleAdmin)
			if err != nil {
				return err
			}
			if admins >= int64(s.maxAdmins) {
				return userService.AdminLimitError(s.maxAdmins)
			}
		}

		user.Role = newRole
		return repo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return &dto.UserChangeResponse{
		Message: fmt.Sprintf("User role changed from %s to %s", oldRole, newRole),
		User:    dto.ToUserResponse(user),
	}, nil
}

func (s *adminService) GetStatistics(ctx context.Context) (*dto.UserStatisticsResponse, error) {
	var (
		res dto.UserStatisticsResponse
		err error
	)
	if res.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if res.ActiveUsers, err = s.userRepo.CountByStatus(ctx, entity.StatusActive); err != nil {
		return nil, err
	}
	if res.InactiveUsers, err = s.userRepo.CountByStatus(ctx, entity.StatusInactive); err != nil {
		return nil, err
	}
	if res.RoleBreakdown.Employees, err = s.userRepo.CountByRole(ctx, entity.RoleEmployee); err != nil {
		return nil, err
	}
	if res.RoleBreakdown.Managers, err = s.userRepo.CountByRole(ctx, entity.RoleManager); err != nil {
		return nil, err
	}
	if res.RoleBreakdown.Admins, err = s.userRepo.CountByRole(ctx, entity.RoleAdmin); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *adminService) findUser(ctx context.Context, repo userRepo.UserRepository, id uuid.UUID) (*entity.User, error) {
	user, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *adminService) detail(ctx context.Context, user *entity.User) (*dto.UserDetailResponse, error) {
	activity, err := s.userRepo.CountActivity(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.UserDetailResponse{
		UserResponse:     dto.ToUserResponse(user),
		IdeasSubmitted:   activity.Ideas,
		CommentsPosted:   activity.Comments,
		VotesCasted:      activity.Votes,
		ReviewsSubmitted: activity.Reviews,
	}, nil
}
