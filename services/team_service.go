// services/team_service.go - Team directory lookups used by recognition endpoints
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamcal/models"
)

var ErrTeamNotFound = errors.New("team not found or inactive")

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// GetTeamByID retrieves an active team
func (s *TeamService) GetTeamByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", teamID, true).
		First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team %s: %w", teamID, err)
	}
	return &team, nil
}

// IsTeamMember checks if a user is an active member of a team
func (s *TeamService) IsTeamMember(ctx context.Context, userID, teamID uuid.UUID) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND is_active = ?", teamID, userID, true).
		Count(&count)
	return count > 0
}

// IsTeamAdmin checks if a user is owner or admin of a team
func (s *TeamService) IsTeamAdmin(ctx context.Context, userID, teamID uuid.UUID) bool {
	var member models.TeamMember
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND is_active = ?", teamID, userID, true).
		First(&member).Error
	if err != nil {
		return false
	}
	return member.Role == models.TeamRoleOwner || member.Role == models.TeamRoleAdmin
}
