package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Idea struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title              string     `gorm:"size:200;not null" json:"title"`
	Description        string     `gorm:"type:text;not null" json:"description"`
	CategoryID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	Category           Category   `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	SubmittedByUserID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"submitted_by_user_id"`
	SubmittedBy        User       `gorm:"foreignKey:SubmittedByUserID" json:"-"`
	SubmittedDate      time.Time  `gorm:"not null;index" json:"submitted_date"`
	Status             IdeaStatus `gorm:"size:20;not null;index" json:"status"`
	ReviewedByUserID   *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_user_id,omitempty"`
	ReviewedByUserName *string    `gorm:"size:50" json:"reviewed_by_user_name,omitempty"`
	ReviewComment      *string    `gorm:"type:text" json:"review_comment,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Votes    []Vote    `json:"-"`
	Comments []Comment `json:"-"`
	Reviews  []Review  `json:"-"`
}

func (i *Idea) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}

// VoteCounts tallies the loaded Votes association.
func (i *Idea) VoteCounts() (up, down int) {
	for _, v := range i.Votes {
		switch v.VoteType {
		case VoteUp:
			up++
		case VoteDown:
			down++
		}
	}
	return up, down
}
