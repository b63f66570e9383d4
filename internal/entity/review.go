package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is an append-only feedback entry. It never changes Idea.Status.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdeaID     uuid.UUID `gorm:"type:uuid;not null;index" json:"idea_id"`
	Idea       *Idea     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;index" json:"reviewer_id"`
	Reviewer   User      `gorm:"foreignKey:ReviewerID" json:"-"`
	Feedback   string    `gorm:"type:text;not null" json:"feedback"`
	ReviewDate time.Time `gorm:"not null" json:"review_date"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
