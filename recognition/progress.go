package recognition

import (
	"math"
	"time"

	"github.com/google/uuid"

	"teamcal/models"
)

// StreakRecencyWindow is how long a streak award hides its progress bar.
const StreakRecencyWindow = 7 * 24 * time.Hour

type AchievementProgress struct {
	Type            models.AchievementType `json:"type"`
	Title           string                 `json:"title"`
	CurrentValue    float64                `json:"current_value"`
	TargetValue     float64                `json:"target_value"`
	ProgressPercent float64                `json:"progress_percent"`
}

// Progress reports how close the user is to each not-yet-earned achievement
// that has a single numeric threshold. Types without a recent metric are
// skipped rather than shown at 0%.
func Progress(prior []models.Achievement, metrics []models.Metric, now time.Time) []AchievementProgress {
	out := []AchievementProgress{}
	for _, cfg := range achievementCatalog {
		req, ok := cfg.progressRequirement()
		if !ok {
			continue
		}
		latest, ok := latestMetric(uuid.Nil, metrics, req.Metric)
		if !ok {
			continue
		}

		switch req.Kind {
		case RequirementStreak:
			if earnedSince(prior, cfg.Type, now.Add(-StreakRecencyWindow)) {
				continue
			}
		default:
			if awardedForWeek(uuid.Nil, prior, cfg.Type, latest.PeriodStart) {
				continue
			}
		}

		percent := math.Min(100, latest.Value/req.Threshold*100)
		if percent < 0 {
			percent = 0
		}
		out = append(out, AchievementProgress{
			Type:            cfg.Type,
			Title:           cfg.Title,
			CurrentValue:    latest.Value,
			TargetValue:     req.Threshold,
			ProgressPercent: percent,
		})
	}
	return out
}
