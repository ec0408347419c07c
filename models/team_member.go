// models/team_member.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

type TeamMember struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	TeamID   uuid.UUID `json:"team_id" gorm:"type:uuid;not null;index"`
	Team     *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Role     TeamRole  `json:"role" gorm:"not null;default:'member'"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null"`
	IsActive bool      `json:"is_active" gorm:"default:true;index"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
