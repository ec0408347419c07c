// services/recognition_store.go - Metric, achievement and leaderboard persistence
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"teamcal/models"
	"teamcal/recognition"
)

// NewAchievement is the write model for CreateAchievement.
type NewAchievement struct {
	UserID    uuid.UUID
	Type      models.AchievementType
	Details   models.AchievementDetails
	WeekStart *time.Time
}

// AchievementStore is everything the recognition service reads and writes.
// CreateAchievement must reject duplicates of (user, type, week start or
// streak length) with ErrAchievementAlreadyAwarded.
type AchievementStore interface {
	recognition.AchievementReader
	recognition.MetricReader
	recognition.LeaderboardReader
	CreateAchievement(ctx context.Context, in NewAchievement) (*models.Achievement, error)
}

type RecognitionStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRecognitionStore(db *gorm.DB) *RecognitionStore {
	return &RecognitionStore{db: db, now: time.Now}
}

// GetUserMetrics returns the user's most recent metric rows, newest period first.
func (s *RecognitionStore) GetUserMetrics(ctx context.Context, userID uuid.UUID, limit int) ([]models.Metric, error) {
	var metrics []models.Metric
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("period_start DESC").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&metrics).Error; err != nil {
		return nil, fmt.Errorf("get metrics for user %s: %w", userID, err)
	}
	return metrics, nil
}

// GetUserAchievements returns the user's achievements, newest first.
func (s *RecognitionStore) GetUserAchievements(ctx context.Context, userID uuid.UUID, q recognition.AchievementQuery) ([]models.Achievement, error) {
	var achievements []models.Achievement
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC")
	if q.StartDate != nil {
		query = query.Where("earned_at >= ?", *q.StartDate)
	}
	if len(q.Types) > 0 {
		query = query.Where("type IN ?", q.Types)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if err := query.Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("get achievements for user %s: %w", userID, err)
	}
	return achievements, nil
}

// CreateAchievement inserts one achievement. The unique index turns a
// concurrent duplicate into ErrAchievementAlreadyAwarded.
func (s *RecognitionStore) CreateAchievement(ctx context.Context, in NewAchievement) (*models.Achievement, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAchievementType, in.Type)
	}
	if in.Details != nil && in.Details.AchievementType() != in.Type {
		return nil, fmt.Errorf("%w: %s details for %s", ErrDetailsMismatch, in.Details.AchievementType(), in.Type)
	}

	data, err := models.EncodeDetails(in.Details)
	if err != nil {
		return nil, err
	}

	var weekStart *time.Time
	if in.WeekStart != nil {
		ws := models.DateOf(*in.WeekStart)
		weekStart = &ws
	}

	achievement := &models.Achievement{
		UserID:    in.UserID,
		Type:      in.Type,
		AwardKey:  models.AwardKey(in.Type, weekStart, in.Details),
		Data:      data,
		WeekStart: weekStart,
		EarnedAt:  s.now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(achievement).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s for user %s (%s)", ErrAchievementAlreadyAwarded, in.Type, in.UserID, achievement.AwardKey)
		}
		return nil, fmt.Errorf("create achievement: %w", err)
	}
	return achievement, nil
}

// GetRecognitionLeaderboard ranks users by average weekly completion rate over
// the timeframe. With a team ID every active member gets a row, even without
// metrics; otherwise only users with activity in the window appear.
func (s *RecognitionStore) GetRecognitionLeaderboard(ctx context.Context, timeframe models.Timeframe, teamID *uuid.UUID) ([]models.LeaderboardEntry, error) {
	db := s.db.WithContext(ctx)
	since, windowed := s.windowStart(timeframe)

	var memberIDs []uuid.UUID
	if teamID != nil {
		if err := db.Model(&models.TeamMember{}).
			Where("team_id = ? AND is_active = ?", *teamID, true).
			Pluck("user_id", &memberIDs).Error; err != nil {
			return nil, fmt.Errorf("get team members: %w", err)
		}
		if len(memberIDs) == 0 {
			return []models.LeaderboardEntry{}, nil
		}
	}
	scope := func(q *gorm.DB, timeColumn string) *gorm.DB {
		if teamID != nil {
			q = q.Where("user_id IN ?", memberIDs)
		}
		if windowed {
			q = q.Where(timeColumn+" >= ?", since)
		}
		return q
	}

	entries := make(map[uuid.UUID]*models.LeaderboardEntry)
	entry := func(id uuid.UUID) *models.LeaderboardEntry {
		e, ok := entries[id]
		if !ok {
			e = &models.LeaderboardEntry{UserID: id}
			entries[id] = e
		}
		return e
	}
	for _, id := range memberIDs {
		entry(id)
	}

	var consistency []struct {
		UserID      uuid.UUID
		Consistency float64
	}
	if err := scope(db.Model(&models.Metric{}), "period_start").
		Select("user_id, AVG(value) AS consistency").
		Where("name = ?", models.MetricWeeklyCompletionRate).
		Group("user_id").
		Scan(&consistency).Error; err != nil {
		return nil, fmt.Errorf("aggregate consistency: %w", err)
	}
	for _, row := range consistency {
		entry(row.UserID).ConsistencyScore = math.Round(row.Consistency*100) / 100
	}

	var streaks []models.Metric
	if err := scope(db.Model(&models.Metric{}), "period_start").
		Where("name = ?", models.MetricConsistencyStreak).
		Order("period_start DESC").
		Find(&streaks).Error; err != nil {
		return nil, fmt.Errorf("load streaks: %w", err)
	}
	seenStreak := make(map[uuid.UUID]bool)
	for _, m := range streaks {
		if seenStreak[m.UserID] {
			continue
		}
		seenStreak[m.UserID] = true
		entry(m.UserID).CurrentStreak = int(math.Round(m.Value))
	}

	var earned []struct {
		UserID uuid.UUID
		Type   models.AchievementType
		Total  int
	}
	if err := scope(db.Model(&models.Achievement{}), "earned_at").
		Select("user_id, type, COUNT(*) AS total").
		Group("user_id, type").
		Scan(&earned).Error; err != nil {
		return nil, fmt.Errorf("aggregate achievements: %w", err)
	}
	for _, row := range earned {
		e := entry(row.UserID)
		e.TotalAchievements += row.Total
		e.TotalPoints += recognition.PointsFor(row.Type) * row.Total
	}

	if len(entries) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	var users []models.User
	if err := db.Select("id, display_name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load display names: %w", err)
	}
	for _, u := range users {
		entries[u.ID].DisplayName = u.DisplayName
	}

	out := make([]models.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConsistencyScore != out[j].ConsistencyScore {
			return out[i].ConsistencyScore > out[j].ConsistencyScore
		}
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// ListActiveUserIDs returns users with any metric whose period starts at or
// after since.
func (s *RecognitionStore) ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Metric{}).
		Where("period_start >= ?", models.DateOf(since)).
		Distinct().
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	return ids, nil
}

// UpsertMetrics writes pipeline output, replacing the value of any row with the
// same (user, name, period start).
func (s *RecognitionStore) UpsertMetrics(ctx context.Context, metrics []models.Metric) error {
	if len(metrics) == 0 {
		return nil
	}
	for i := range metrics {
		metrics[i].PeriodStart = models.DateOf(metrics[i].PeriodStart)
		metrics[i].PeriodEnd = models.DateOf(metrics[i].PeriodEnd)
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}, {Name: "period_start"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "period_end"}),
		}).
		CreateInBatches(&metrics, 500).Error
	if err != nil {
		return fmt.Errorf("upsert metrics: %w", err)
	}
	return nil
}

// CountMetrics returns the number of stored metric rows.
func (s *RecognitionStore) CountMetrics(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Metric{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count metrics: %w", err)
	}
	return count, nil
}

func (s *RecognitionStore) windowStart(timeframe models.Timeframe) (time.Time, bool) {
	now := s.now().UTC()
	switch timeframe {
	case models.TimeframeWeek:
		return models.WeekStartOf(now), true
	case models.TimeframeFourWeeks:
		return models.WeekStartOf(now).AddDate(0, 0, -21), true
	case models.TimeframeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}
