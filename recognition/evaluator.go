// recognition/evaluator.go - Achievement qualification rules
package recognition

import (
	"math"
	"time"

	"github.com/google/uuid"

	"teamcal/models"
)

// Qualification is a newly earned achievement that has not been persisted yet.
type Qualification struct {
	Type      models.AchievementType    `json:"type"`
	WeekStart *time.Time                `json:"week_start,omitempty"`
	Details   models.AchievementDetails `json:"details,omitempty"`
}

// Evaluate returns the achievement types userID newly qualifies for in the week
// starting at periodStart.
func Evaluate(userID uuid.UUID, metrics []models.Metric, prior []models.Achievement, periodStart time.Time) []models.AchievementType {
	qualified := Qualify(userID, metrics, prior, periodStart)
	types := make([]models.AchievementType, 0, len(qualified))
	for _, q := range qualified {
		types = append(types, q.Type)
	}
	return types
}

// Qualify applies every metric-driven rule independently and returns the
// qualifications with the details each award should record. Missing metrics
// count as zero. prior must include at least the achievements of the target
// week and every earlier reliability streak.
func Qualify(userID uuid.UUID, metrics []models.Metric, prior []models.Achievement, periodStart time.Time) []Qualification {
	week := models.DateOf(periodStart)
	rate := periodValue(userID, metrics, models.MetricWeeklyCompletionRate, week)
	planning := periodValue(userID, metrics, models.MetricEarlyPlanningScore, week)

	var out []Qualification
	weekly := func(t models.AchievementType, details models.AchievementDetails) {
		if awardedForWeek(userID, prior, t, week) {
			return
		}
		ws := week
		out = append(out, Qualification{Type: t, WeekStart: &ws, Details: details})
	}

	fullWeek := rate == FullCompletionRate
	plannedEarly := planning >= EarlyPlanningTarget

	if fullWeek {
		weekly(models.AchievementConsistentUpdater, models.CompletionDetails{CompletionRate: rate})
	}
	if plannedEarly {
		weekly(models.AchievementEarlyPlanner, models.PlanningDetails{PlanningScore: planning})
	}
	if fullWeek && plannedEarly {
		weekly(models.AchievementPerfectWeek, models.PerfectWeekDetails{CompletionRate: rate, PlanningScore: planning})
	}

	// Streaks are keyed by length rather than week: a longer streak earns again.
	if latest, ok := latestMetric(userID, metrics, models.MetricConsistencyStreak); ok && latest.Value >= ReliabilityStreakGoal {
		length := int(math.Round(latest.Value))
		if !awardedStreak(userID, prior, length) {
			ws := week
			out = append(out, Qualification{
				Type:      models.AchievementReliabilityStreak,
				WeekStart: &ws,
				Details:   models.StreakDetails{StreakLength: length},
			})
		}
	}

	return out
}
