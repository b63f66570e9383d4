// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"anoa.com/ideaboard/internal/bootstrap"
	"anoa.com/ideaboard/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated sqlite database private to the calling test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Keep the shared in-memory database alive for the whole test.
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, bootstrap.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name string, role entity.UserRole, status entity.UserStatus) *entity.User {
	t.Helper()
	u := &entity.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@corp.test",
		PasswordHash: "x",
		Role:         role,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateCategory(t *testing.T, db *gorm.DB, name string, active bool) *entity.Category {
	t.Helper()
	c := &entity.Category{Name: name, IsActive: active, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateIdea(t *testing.T, db *gorm.DB, title string, categoryID, submitterID uuid.UUID) *entity.Idea {
	t.Helper()
	i := &entity.Idea{
		Title:             title,
		Description:       title + " description",
		CategoryID:        categoryID,
		SubmittedByUserID: submitterID,
		SubmittedDate:     time.Now().UTC(),
		Status:            entity.IdeaUnderReview,
	}
	require.NoError(t, db.Create(i).Error)
	return i
}

func Count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
