package recognition

import (
	"math"
	"time"

	"github.com/google/uuid"

	"teamcal/models"
)

// belongsTo treats uuid.Nil on either side as a wildcard so callers may pass
// unscoped slices.
func belongsTo(owner, userID uuid.UUID) bool {
	return userID == uuid.Nil || owner == uuid.Nil || owner == userID
}

// usable filters out values a broken pipeline row could carry.
func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// periodValue returns the value of the named metric for the week starting at
// week, or 0 when the metric is missing.
func periodValue(userID uuid.UUID, metrics []models.Metric, name models.MetricName, week time.Time) float64 {
	for _, m := range metrics {
		if m.Name != name || !belongsTo(m.UserID, userID) {
			continue
		}
		if models.SameDate(m.PeriodStart, week) && usable(m.Value) {
			return m.Value
		}
	}
	return 0
}

// latestMetric returns the named metric with the most recent period start.
func latestMetric(userID uuid.UUID, metrics []models.Metric, name models.MetricName) (models.Metric, bool) {
	var (
		latest models.Metric
		found  bool
	)
	for _, m := range metrics {
		if m.Name != name || !belongsTo(m.UserID, userID) || !usable(m.Value) {
			continue
		}
		if !found || m.PeriodStart.After(latest.PeriodStart) ||
			(m.PeriodStart.Equal(latest.PeriodStart) && m.CreatedAt.After(latest.CreatedAt)) {
			latest = m
			found = true
		}
	}
	return latest, found
}

func awardedForWeek(userID uuid.UUID, prior []models.Achievement, t models.AchievementType, week time.Time) bool {
	for _, a := range prior {
		if a.Type != t || !belongsTo(a.UserID, userID) || a.WeekStart == nil {
			continue
		}
		if models.SameDate(*a.WeekStart, week) {
			return true
		}
	}
	return false
}

func awardedStreak(userID uuid.UUID, prior []models.Achievement, length int) bool {
	for _, a := range prior {
		if !belongsTo(a.UserID, userID) {
			continue
		}
		if recorded, ok := a.StreakLength(); ok && recorded == length {
			return true
		}
	}
	return false
}

func earnedSince(prior []models.Achievement, t models.AchievementType, since time.Time) bool {
	for _, a := range prior {
		if a.Type == t && !a.EarnedAt.Before(since) {
			return true
		}
	}
	return false
}
