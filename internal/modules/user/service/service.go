package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/ideaboard/internal/auth"
	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/modules/user/dto"
	"anoa.com/ideaboard/internal/modules/user/repository"
	"anoa.com/ideaboard/pkg/apperror"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail     = apperror.New(apperror.ErrConflict, "User with this email already exists.")
	ErrInvalidRole        = apperror.New(apperror.ErrInvalidInput, "Invalid role. Must be 'Employee', 'Manager', or 'Admin'.")
	ErrAdminLimitExceeded = fmt.Errorf("admin limit exceeded: %w", apperror.ErrConflict)
	ErrInvalidCredentials = apperror.New(apperror.ErrUnauthorized, "Invalid email or password.")
	ErrAccountInactive    = apperror.New(apperror.ErrForbidden, "Your account is not active. Please contact an administrator.")
)

const (
	msgRegisteredActive   = "Registration successful. Please login to continue."
	msgRegisteredManager  = "Registration successful. Your account is inactive. An admin must activate it before you can login."
	msgRegisteredSubAdmin = "Registration successful. Your account is inactive. The primary admin must activate it before you can login."
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
}

type authService struct {
	repo      repository.UserRepository
	hasher    auth.PasswordHasher
	tokens    auth.TokenIssuer
	maxAdmins int
}

func NewAuthService(repo repository.UserRepository, hasher auth.PasswordHasher, tokens auth.TokenIssuer, maxAdmins int) AuthService {
	return &authService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		maxAdmins: maxAdmins,
	}
}

// AdminLimitError reports the configured cap in its message.
func AdminLimitError(maxAdmins int) error {
	return &apperror.AppError{
		Message: fmt.Sprintf("Admin registration is restricted. Maximum %d admins are allowed in the system.", maxAdmins),
		Err:     ErrAdminLimitExceeded,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error) {
	role, err := entity.ParseUserRole(input.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         role,
		Status:       entity.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	message := msgRegisteredActive

	err = s.repo.Transaction(ctx, func(repo repository.UserRepository) error {
		if _, err := repo.FindByEmail(ctx, user.Email); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		switch role {
		case entity.RoleManager:
			user.Status = entity.StatusInactive
			message = msgRegisteredManager
		case entity.RoleAdmin:
			if err := repo.LockAdminSeats(ctx); err != nil {
				return err
			}
			admins, err := repo.CountByRole(ctx, entity.RoleAdmin)
			if err != nil {
				return err
			}
			if admins >= int64(s.maxAdmins) {
				return AdminLimitError(s.maxAdmins)
			}
			if admins > 0 {
				user.Status = entity.StatusInactive
				message = msgRegisteredSubAdmin
			}
		}

		if err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		Message: message,
		UserID:  user.ID,
		Role:    string(user.Role),
		Status:  string(user.Status),
	}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrAccountInactive
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Status:    string(user.Status),
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	}, nil
}
