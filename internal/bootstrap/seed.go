package bootstrap

import (
	"anoa.com/ideaboard/internal/entity"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Idea{},
		&entity.Vote{},
		&entity.Comment{},
		&entity.Review{},
		&entity.Notification{},
	)
}

var defaultCategories = []entity.Category{
	{Name: "Process Improvement", Description: "Ways to make day-to-day work faster or simpler"},
	{Name: "Cost Saving", Description: "Ideas that reduce spend"},
	{Name: "Workplace", Description: "Office, tooling and wellbeing"},
	{Name: "Product", Description: "New features or products for customers"},
}

// SeedCategories inserts the default categories that are missing. Users are not
// seeded: the first registered Admin becomes the primary admin.
func SeedCategories(db *gorm.DB, logger *zap.Logger) error {
	for _, category := range defaultCategories {
		var count int64
		if err := db.Model(&entity.Category{}).
			Where("LOWER(name) = LOWER(?)", category.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			continue
		}

		category.IsActive = true
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		logger.Info("seeded category", zap.String("name", category.Name))
	}

	return nil
}
