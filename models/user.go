// models/user.go - Directory entry for people who can earn recognition
package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the account record owned by the auth provider. Recognition only
// reads it for display names on leaderboards.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string    `gorm:"size:120" json:"display_name"`
	Email       *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Achievements []Achievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
}

func (User) TableName() string {
	return "users"
}
