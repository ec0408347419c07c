// models/achievement.go - Earned recognition achievements
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AchievementType string

const (
	AchievementConsistentUpdater AchievementType = "consistent_updater"
	AchievementEarlyPlanner      AchievementType = "early_planner"
	AchievementPerfectWeek       AchievementType = "perfect_week"
	AchievementTeamHelper        AchievementType = "team_helper"
	AchievementSprintChampion    AchievementType = "sprint_champion"
	AchievementReliabilityStreak AchievementType = "reliability_streak"
)

// AchievementTypes lists every achievement type in display order.
var AchievementTypes = []AchievementType{
	AchievementConsistentUpdater,
	AchievementEarlyPlanner,
	AchievementPerfectWeek,
	AchievementTeamHelper,
	AchievementSprintChampion,
	AchievementReliabilityStreak,
}

func (t AchievementType) Valid() bool {
	for _, known := range AchievementTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Achievement records that a user satisfied an achievement rule. Rows are
// created once and never updated. The unique index on (user_id, type, award_key)
// is what keeps concurrent evaluators from awarding the same thing twice.
type Achievement struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_achievements_award_key,priority:1"`
	Type      AchievementType `json:"achievement_type" gorm:"not null;size:64;uniqueIndex:idx_achievements_award_key,priority:2"`
	AwardKey  string          `json:"-" gorm:"not null;size:64;uniqueIndex:idx_achievements_award_key,priority:3"`
	Data      datatypes.JSON  `json:"achievement_data,omitempty"`
	WeekStart *time.Time      `json:"week_start,omitempty"`
	EarnedAt  time.Time       `json:"earned_at" gorm:"not null;index"`
}

func (Achievement) TableName() string {
	return "achievements"
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Details decodes the type-specific payload. A nil result with a nil error
// means the achievement carries no payload.
func (a Achievement) Details() (AchievementDetails, error) {
	return DecodeDetails(a.Type, a.Data)
}

// StreakLength returns the recorded streak length of a reliability streak award.
func (a Achievement) StreakLength() (int, bool) {
	if a.Type != AchievementReliabilityStreak {
		return 0, false
	}
	details, err := a.Details()
	if err != nil {
		return 0, false
	}
	streak, ok := details.(StreakDetails)
	if !ok {
		return 0, false
	}
	return streak.StreakLength, true
}

// AchievementDetails is the payload stored with an achievement. Each achievement
// type has exactly one concrete details type.
type AchievementDetails interface {
	AchievementType() AchievementType
}

type CompletionDetails struct {
	CompletionRate float64 `json:"completion_rate"`
}

func (CompletionDetails) AchievementType() AchievementType { return AchievementConsistentUpdater }

type PlanningDetails struct {
	PlanningScore float64 `json:"planning_score"`
}

func (PlanningDetails) AchievementType() AchievementType { return AchievementEarlyPlanner }

type PerfectWeekDetails struct {
	CompletionRate float64 `json:"completion_rate"`
	PlanningScore  float64 `json:"planning_score"`
}

func (PerfectWeekDetails) AchievementType() AchievementType { return AchievementPerfectWeek }

type TeamHelperDetails struct {
	HelpedMembers int    `json:"helped_members,omitempty"`
	Note          string `json:"note,omitempty"`
}

func (TeamHelperDetails) AchievementType() AchievementType { return AchievementTeamHelper }

type SprintChampionDetails struct {
	SprintName     string  `json:"sprint_name,omitempty"`
	CompletionRate float64 `json:"completion_rate,omitempty"`
}

func (SprintChampionDetails) AchievementType() AchievementType { return AchievementSprintChampion }

type StreakDetails struct {
	StreakLength int `json:"streak_length"`
}

func (StreakDetails) AchievementType() AchievementType { return AchievementReliabilityStreak }

// EncodeDetails serializes details for the achievement_data column.
func EncodeDetails(d AchievementDetails) (datatypes.JSON, error) {
	if d == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode %s details: %w", d.AchievementType(), err)
	}
	return datatypes.JSON(raw), nil
}

// DecodeDetails parses raw achievement_data into the details type owned by t.
func DecodeDetails(t AchievementType, raw datatypes.JSON) (AchievementDetails, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var (
		details AchievementDetails
		err     error
	)
	switch t {
	case AchievementConsistentUpdater:
		var d CompletionDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case AchievementEarlyPlanner:
		var d PlanningDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case AchievementPerfectWeek:
		var d PerfectWeekDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case AchievementTeamHelper:
		var d TeamHelperDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case AchievementSprintChampion:
		var d SprintChampionDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case AchievementReliabilityStreak:
		var d StreakDetails
		err = json.Unmarshal(raw, &d)
		details = d
	default:
		return nil, fmt.Errorf("unknown achievement type %q", t)
	}

	if err != nil {
		return nil, fmt.Errorf("decode %s details: %w", t, err)
	}
	return details, nil
}

// AwardKey is the third column of the uniqueness key. Reliability streaks are
// keyed by streak length, everything else by week start.
func AwardKey(t AchievementType, weekStart *time.Time, details AchievementDetails) string {
	if t == AchievementReliabilityStreak {
		if streak, ok := details.(StreakDetails); ok {
			return "streak:" + strconv.Itoa(streak.StreakLength)
		}
	}
	if weekStart != nil {
		return DateOf(*weekStart).Format(DateLayout)
	}
	return "once"
}
