// recognition/profile.go - Per-user recognition profile assembly
package recognition

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"teamcal/models"
)

// AchievementQuery narrows an achievement read. A zero Limit means no limit and
// an empty Types means every type.
type AchievementQuery struct {
	StartDate *time.Time
	Types     []models.AchievementType
	Limit     int
}

type AchievementReader interface {
	GetUserAchievements(ctx context.Context, userID uuid.UUID, q AchievementQuery) ([]models.Achievement, error)
}

type MetricReader interface {
	GetUserMetrics(ctx context.Context, userID uuid.UUID, limit int) ([]models.Metric, error)
}

type LeaderboardReader interface {
	GetRecognitionLeaderboard(ctx context.Context, timeframe models.Timeframe, teamID *uuid.UUID) ([]models.LeaderboardEntry, error)
}

type ProfileStats struct {
	TotalAchievements  int `json:"total_achievements"`
	AverageConsistency int `json:"average_consistency"`
	BestStreak         int `json:"best_streak"`
	TeamRank           int `json:"team_rank"`
	CompanyRank        int `json:"company_rank"`
}

// UserRecognitionProfile is recomputed on every read and never stored.
type UserRecognitionProfile struct {
	UserID            uuid.UUID             `json:"user_id"`
	TotalPoints       int                   `json:"total_points"`
	CurrentLevel      RecognitionLevel      `json:"current_level"`
	NextLevel         *RecognitionLevel     `json:"next_level"`
	PointsToNextLevel int                   `json:"points_to_next_level"`
	LevelProgress     float64               `json:"level_progress"`
	Achievements      []models.Achievement  `json:"achievements"`
	Progress          []AchievementProgress `json:"progress"`
	Stats             ProfileStats          `json:"stats"`
	JoinedAt          time.Time             `json:"joined_at"`
}

// ProfileBuilder assembles profiles from three reads. It returns an error as
// soon as any read fails and never a partial profile.
type ProfileBuilder struct {
	Achievements AchievementReader
	Metrics      MetricReader
	Leaderboard  LeaderboardReader
	MetricLimit  int
	Now          func() time.Time
}

func (b *ProfileBuilder) Build(ctx context.Context, userID uuid.UUID) (*UserRecognitionProfile, error) {
	achievements, err := b.Achievements.GetUserAchievements(ctx, userID, AchievementQuery{})
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	metrics, err := b.Metrics.GetUserMetrics(ctx, userID, b.MetricLimit)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	leaderboard, err := b.Leaderboard.GetRecognitionLeaderboard(ctx, models.TimeframeAll, nil)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	now := time.Now()
	if b.Now != nil {
		now = b.Now()
	}
	return assembleProfile(userID, achievements, metrics, leaderboard, now), nil
}

func assembleProfile(userID uuid.UUID, achievements []models.Achievement, metrics []models.Metric, leaderboard []models.LeaderboardEntry, now time.Time) *UserRecognitionProfile {
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	level := ComputeLevel(achievements)
	rank := rankOf(userID, leaderboard)

	return &UserRecognitionProfile{
		UserID:            userID,
		TotalPoints:       level.TotalPoints,
		CurrentLevel:      level.CurrentLevel,
		NextLevel:         level.NextLevel,
		PointsToNextLevel: level.PointsToNextLevel,
		LevelProgress:     level.LevelProgress,
		Achievements:      achievements,
		Progress:          Progress(achievements, metrics, now),
		Stats: ProfileStats{
			TotalAchievements:  len(achievements),
			AverageConsistency: averageConsistency(metrics),
			BestStreak:         bestStreak(metrics),
			// Single ranking source until a company-wide ranking exists.
			TeamRank:    rank,
			CompanyRank: rank,
		},
		JoinedAt: joinedAt(achievements, now),
	}
}

func joinedAt(achievements []models.Achievement, now time.Time) time.Time {
	var earliest time.Time
	for _, a := range achievements {
		if earliest.IsZero() || a.EarnedAt.Before(earliest) {
			earliest = a.EarnedAt
		}
	}
	if earliest.IsZero() {
		return now
	}
	return earliest
}

func averageConsistency(metrics []models.Metric) int {
	var sum float64
	n := 0
	for _, m := range metrics {
		if m.Name == models.MetricWeeklyCompletionRate && usable(m.Value) {
			sum += m.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(sum / float64(n)))
}

func bestStreak(metrics []models.Metric) int {
	best := 0.0
	for _, m := range metrics {
		if m.Name == models.MetricConsistencyStreak && usable(m.Value) && m.Value > best {
			best = m.Value
		}
	}
	return int(math.Round(best))
}

// rankOf is the 1-based position of userID in leaderboard, 0 when absent.
func rankOf(userID uuid.UUID, leaderboard []models.LeaderboardEntry) int {
	for i, entry := range leaderboard {
		if entry.UserID == userID {
			return i + 1
		}
	}
	return 0
}
