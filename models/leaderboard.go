// models/leaderboard.go
package models

import "github.com/google/uuid"

type Timeframe string

const (
	TimeframeWeek      Timeframe = "week"
	TimeframeFourWeeks Timeframe = "4w"
	TimeframeMonth     Timeframe = "month"
	TimeframeAll       Timeframe = "all"
)

// ParseTimeframe maps a query value to a Timeframe, defaulting to the current month.
func ParseTimeframe(s string) Timeframe {
	switch Timeframe(s) {
	case TimeframeWeek, TimeframeFourWeeks, TimeframeMonth, TimeframeAll:
		return Timeframe(s)
	default:
		return TimeframeMonth
	}
}

// LeaderboardEntry is one ranked row of the recognition leaderboard.
type LeaderboardEntry struct {
	UserID            uuid.UUID `json:"user_id"`
	DisplayName       string    `json:"display_name"`
	ConsistencyScore  float64   `json:"consistency_score"`
	TotalAchievements int       `json:"total_achievements"`
	TotalPoints       int       `json:"total_points"`
	CurrentStreak     int       `json:"current_streak"`
	Rank              int       `json:"rank"`
}
