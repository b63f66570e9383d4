package bootstrap

import (
	"testing"

	"anoa.com/ideaboard/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeedCategoriesIsRepeatable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, SeedCategories(db, zap.NewNop()))
	require.NoError(t, SeedCategories(db, zap.NewNop()))

	var categories []entity.Category
	require.NoError(t, db.Find(&categories).Error)
	assert.Len(t, categories, len(defaultCategories))
	for _, c := range categories {
		assert.True(t, c.IsActive)
	}
}
