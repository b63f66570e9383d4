package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"` // recipient
	Type       NotificationType   `gorm:"size:30;not null" json:"type"`
	Message    string             `gorm:"type:text;not null" json:"message"`
	Status     NotificationStatus `gorm:"size:10;not null;index" json:"status"`
	IdeaID     *uuid.UUID         `gorm:"type:uuid;index" json:"idea_id,omitempty"`
	ReviewerID *uuid.UUID         `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`

	User     *User `gorm:"foreignKey:UserID" json:"-"`
	Idea     *Idea `gorm:"foreignKey:IdeaID" json:"-"`
	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
