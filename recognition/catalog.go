// recognition/catalog.go - Static achievement and level catalogs
package recognition

import "teamcal/models"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// RequirementKind says what a requirement threshold is measured against.
type RequirementKind string

const (
	RequirementCompletionRate RequirementKind = "completion_rate"
	RequirementPlanningScore  RequirementKind = "planning_score"
	RequirementStreak         RequirementKind = "streak"
	RequirementManual         RequirementKind = "manual"
)

// Requirement is a single threshold on a metric. Manual requirements have no
// metric and are granted by a team lead.
type Requirement struct {
	Kind      RequirementKind   `json:"kind"`
	Metric    models.MetricName `json:"metric,omitempty"`
	Threshold float64           `json:"threshold,omitempty"`
}

type AchievementConfig struct {
	Type         models.AchievementType `json:"type"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Icon         string                 `json:"icon"`
	Points       int                    `json:"points"`
	Difficulty   Difficulty             `json:"difficulty"`
	Requirements []Requirement          `json:"requirements"`
}

// RecognitionLevel is a tier reached once a user's total points meet MinimumPoints.
type RecognitionLevel struct {
	Level         int    `json:"level"`
	Title         string `json:"title"`
	MinimumPoints int    `json:"minimum_points"`
}

const (
	FullCompletionRate    = 100
	EarlyPlanningTarget   = 3
	ReliabilityStreakGoal = 3
)

var achievementCatalog = [...]AchievementConfig{
	{
		Type:        models.AchievementConsistentUpdater,
		Title:       "Consistent Updater",
		Description: "Completed every scheduled update for the week",
		Icon:        "calendar-check",
		Points:      50,
		Difficulty:  DifficultyEasy,
		Requirements: []Requirement{
			{Kind: RequirementCompletionRate, Metric: models.MetricWeeklyCompletionRate, Threshold: FullCompletionRate},
		},
	},
	{
		Type:        models.AchievementEarlyPlanner,
		Title:       "Early Planner",
		Description: "Planned the week ahead of schedule",
		Icon:        "clock",
		Points:      30,
		Difficulty:  DifficultyEasy,
		Requirements: []Requirement{
			{Kind: RequirementPlanningScore, Metric: models.MetricEarlyPlanningScore, Threshold: EarlyPlanningTarget},
		},
	},
	{
		Type:        models.AchievementPerfectWeek,
		Title:       "Perfect Week",
		Description: "Completed every update and planned ahead in the same week",
		Icon:        "star",
		Points:      100,
		Difficulty:  DifficultyMedium,
		Requirements: []Requirement{
			{Kind: RequirementCompletionRate, Metric: models.MetricWeeklyCompletionRate, Threshold: FullCompletionRate},
			{Kind: RequirementPlanningScore, Metric: models.MetricEarlyPlanningScore, Threshold: EarlyPlanningTarget},
		},
	},
	{
		Type:        models.AchievementTeamHelper,
		Title:       "Team Helper",
		Description: "Stepped in to cover or support teammates",
		Icon:        "users",
		Points:      75,
		Difficulty:  DifficultyMedium,
		Requirements: []Requirement{
			{Kind: RequirementManual},
		},
	},
	{
		Type:        models.AchievementSprintChampion,
		Title:       "Sprint Champion",
		Description: "Led the team through a sprint",
		Icon:        "trophy",
		Points:      150,
		Difficulty:  DifficultyHard,
		Requirements: []Requirement{
			{Kind: RequirementManual},
		},
	},
	{
		Type:        models.AchievementReliabilityStreak,
		Title:       "Reliability Streak",
		Description: "Kept up with updates for consecutive weeks",
		Icon:        "flame",
		Points:      200,
		Difficulty:  DifficultyHard,
		Requirements: []Requirement{
			{Kind: RequirementStreak, Metric: models.MetricConsistencyStreak, Threshold: ReliabilityStreakGoal},
		},
	},
}

// levelCatalog must stay strictly ascending by MinimumPoints and start at 0.
var levelCatalog = [...]RecognitionLevel{
	{Level: 1, Title: "Newcomer", MinimumPoints: 0},
	{Level: 2, Title: "Contributor", MinimumPoints: 100},
	{Level: 3, Title: "Reliable Teammate", MinimumPoints: 250},
	{Level: 4, Title: "Team Player", MinimumPoints: 500},
	{Level: 5, Title: "Consistency Pro", MinimumPoints: 1000},
	{Level: 6, Title: "Recognition Champion", MinimumPoints: 2000},
	{Level: 7, Title: "Legend", MinimumPoints: 4000},
}

// Catalog returns a copy of every achievement config in display order.
func Catalog() []AchievementConfig {
	out := make([]AchievementConfig, len(achievementCatalog))
	for i, cfg := range achievementCatalog {
		out[i] = cfg.clone()
	}
	return out
}

// LookupAchievement returns the config for t. ok is false for unknown types.
func LookupAchievement(t models.AchievementType) (AchievementConfig, bool) {
	for _, cfg := range achievementCatalog {
		if cfg.Type == t {
			return cfg.clone(), true
		}
	}
	return AchievementConfig{}, false
}

// PointsFor is the catalog point value of t, or 0 when t is unknown.
func PointsFor(t models.AchievementType) int {
	for _, cfg := range achievementCatalog {
		if cfg.Type == t {
			return cfg.Points
		}
	}
	return 0
}

// Levels returns a copy of the level catalog in ascending order.
func Levels() []RecognitionLevel {
	out := make([]RecognitionLevel, len(levelCatalog))
	copy(out, levelCatalog[:])
	return out
}

func (c AchievementConfig) clone() AchievementConfig {
	reqs := make([]Requirement, len(c.Requirements))
	copy(reqs, c.Requirements)
	c.Requirements = reqs
	return c
}

// progressRequirement returns the requirement a progress bar tracks, if any.
// Only single-threshold completion or streak requirements qualify.
func (c AchievementConfig) progressRequirement() (Requirement, bool) {
	if len(c.Requirements) != 1 {
		return Requirement{}, false
	}
	req := c.Requirements[0]
	switch req.Kind {
	case RequirementCompletionRate, RequirementStreak:
		return req, req.Threshold > 0
	default:
		return Requirement{}, false
	}
}
