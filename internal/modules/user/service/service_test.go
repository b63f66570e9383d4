package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/ideaboard/internal/auth"
	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/modules/user/dto"
	"anoa.com/ideaboard/internal/modules/user/repository"
	"anoa.com/ideaboard/internal/testutil"
	"anoa.com/ideaboard/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (AuthService, *gorm.DB, auth.TokenIssuer) {
	t.Helper()
	db := testutil.NewDB(t)
	tokens := auth.NewJWTIssuer("test-secret", time.Hour)
	svc := NewAuthService(repository.NewUserRepository(db), auth.NewBcryptHasher(bcrypt.MinCost), tokens, 2)
	return svc, db, tokens
}

func register(t *testing.T, svc AuthService, email, role string) (*dto.RegisterResponse, error) {
	t.Helper()
	return svc.Register(context.Background(), dto.RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "Passw0rd!",
		Role:     role,
	})
}

func TestRegisterActivationPolicy(t *testing.T) {
	svc, _, _ := newAuthService(t)

	res, err := register(t, svc, "emp@corp.test", "employee")
	require.NoError(t, err)
	assert.Equal(t, "Active", res.Status)
	assert.Equal(t, "Employee", res.Role)
	assert.Equal(t, msgRegisteredActive, res.Message)

	res, err = register(t, svc, "mgr@corp.test", "Manager")
	require.NoError(t, err)
	assert.Equal(t, "Inactive", res.Status)
	assert.Equal(t, msgRegisteredManager, res.Message)
}

func TestRegisterAdminLimit(t *testing.T) {
	svc, db, _ := newAuthService(t)

	first, err := register(t, svc, "admin1@corp.test", "Admin")
	require.NoError(t, err)
	assert.Equal(t, "Active", first.Status)

	second, err := register(t, svc, "admin2@corp.test", "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "Inactive", second.Status)
	assert.Equal(t, msgRegisteredSubAdmin, second.Message)

	_, err = register(t, svc, "admin3@corp.test", "Admin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAdminLimitExceeded))
	assert.True(t, errors.Is(err, apperror.ErrConflict))
	assert.Contains(t, err.Error(), "Maximum 2 admins")

	assert.EqualValues(t, 2, testutil.Count(t, db, &entity.User{}, "role = ?", entity.RoleAdmin))
}

func TestRegisterRejectsDuplicateEmailAndBadRole(t *testing.T) {
	svc, db, _ := newAuthService(t)

	_, err := register(t, svc, "dup@corp.test", "Employee")
	require.NoError(t, err)

	_, err = register(t, svc, "DUP@corp.test", "Employee")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = register(t, svc, "other@corp.test", "Intern")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	assert.EqualValues(t, 1, testutil.Count(t, db, &entity.User{}, ""))
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newAuthService(t)
	ctx := context.Background()

	_, err := register(t, svc, "emp@corp.test", "Employee")
	require.NoError(t, err)
	_, err = register(t, svc, "mgr@corp.test", "Manager")
	require.NoError(t, err)

	res, err := svc.Login(ctx, dto.LoginInput{Email: "EMP@corp.test", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, "Employee", res.Role)

	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID.String(), claims.Subject)
	assert.Equal(t, entity.RoleEmployee, claims.Role)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "emp@corp.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "ghost@corp.test", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "mgr@corp.test", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, ErrAccountInactive)
}
