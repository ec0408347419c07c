package recognition

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"teamcal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func metric(userID uuid.UUID, name models.MetricName, value float64, periodStart time.Time) models.Metric {
	return models.Metric{
		UserID:      userID,
		Name:        name,
		Value:       value,
		PeriodStart: periodStart,
		PeriodEnd:   periodStart.AddDate(0, 0, 6),
	}
}

func weekAward(userID uuid.UUID, typ models.AchievementType, week time.Time, earnedAt time.Time) models.Achievement {
	ws := week
	return models.Achievement{UserID: userID, Type: typ, WeekStart: &ws, EarnedAt: earnedAt}
}

func streakAward(t *testing.T, userID uuid.UUID, length int, earnedAt time.Time) models.Achievement {
	t.Helper()
	data, err := models.EncodeDetails(models.StreakDetails{StreakLength: length})
	if err != nil {
		t.Fatalf("encode streak details: %v", err)
	}
	return models.Achievement{UserID: userID, Type: models.AchievementReliabilityStreak, Data: data, EarnedAt: earnedAt}
}

func containsType(types []models.AchievementType, want models.AchievementType) bool {
	for _, typ := range types {
		if typ == want {
			return true
		}
	}
	return false
}
