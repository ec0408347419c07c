// services/recognition_service.go - Recognition boundary used by handlers and jobs
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"teamcal/config"
	"teamcal/logger"
	"teamcal/models"
	"teamcal/recognition"
)

// RecognitionService is the only place recognition errors are collapsed. Every
// exported method returns a neutral value (empty slice, nil, zero stats) when a
// read or write fails and logs the cause instead of returning it.
type RecognitionService struct {
	store             AchievementStore
	log               *logger.Logger
	metricWindow      int
	achievementWindow int
	now               func() time.Time
	builder           *recognition.ProfileBuilder
}

type Option func(*RecognitionService)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *RecognitionService) {
		s.now = now
	}
}

func NewRecognitionService(store AchievementStore, log *logger.Logger, cfg config.Recognition, opts ...Option) *RecognitionService {
	s := &RecognitionService{
		store:             store,
		log:               log,
		metricWindow:      cfg.MetricWindow,
		achievementWindow: cfg.AchievementWindow,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = &recognition.ProfileBuilder{
		Achievements: store,
		Metrics:      store,
		Leaderboard:  store,
		MetricLimit:  s.metricWindow,
		Now:          s.now,
	}
	return s
}

// currentWeek resolves an optional week start to a Monday date.
func (s *RecognitionService) currentWeek(weekStart *time.Time) time.Time {
	if weekStart != nil {
		return models.DateOf(*weekStart)
	}
	return models.WeekStartOf(s.now())
}

// qualify reads the user's recent metrics and prior achievements and runs the
// evaluator for the target week. Streak awards are read in full because they
// are keyed by length, not by week, and an old one can sit outside the window.
func (s *RecognitionService) qualify(ctx context.Context, userID uuid.UUID, week time.Time) ([]recognition.Qualification, error) {
	metrics, err := s.store.GetUserMetrics(ctx, userID, s.metricWindow)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.GetUserAchievements(ctx, userID, recognition.AchievementQuery{Limit: s.achievementWindow})
	if err != nil {
		return nil, err
	}
	streaks, err := s.store.GetUserAchievements(ctx, userID, recognition.AchievementQuery{
		Types: []models.AchievementType{models.AchievementReliabilityStreak},
	})
	if err != nil {
		return nil, err
	}
	return recognition.Qualify(userID, metrics, mergeAchievements(recent, streaks), week), nil
}

// mergeAchievements appends the rows of extra not already in base.
func mergeAchievements(base, extra []models.Achievement) []models.Achievement {
	seen := make(map[uuid.UUID]bool, len(base))
	for _, a := range base {
		seen[a.ID] = true
	}
	out := append([]models.Achievement(nil), base...)
	for _, a := range extra {
		if !seen[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// CalculateAchievementsForUser returns the achievement types the user newly
// qualifies for in the given week (default: the current week).
func (s *RecognitionService) CalculateAchievementsForUser(ctx context.Context, userID uuid.UUID, weekStart *time.Time) []models.AchievementType {
	week := s.currentWeek(weekStart)
	qualified, err := s.qualify(ctx, userID, week)
	if err != nil {
		s.log.Error("calculate achievements failed", "user_id", userID, "week_start", week.Format(models.DateLayout), "error", err)
		return []models.AchievementType{}
	}

	types := make([]models.AchievementType, 0, len(qualified))
	for _, q := range qualified {
		types = append(types, q.Type)
	}
	return types
}

// AwardAchievement persists one achievement. It returns nil when the write is
// rejected, including when the achievement was already awarded.
func (s *RecognitionService) AwardAchievement(ctx context.Context, userID uuid.UUID, t models.AchievementType, details models.AchievementDetails, weekStart *time.Time) *models.Achievement {
	achievement, err := s.store.CreateAchievement(ctx, NewAchievement{
		UserID:    userID,
		Type:      t,
		Details:   details,
		WeekStart: weekStart,
	})
	if err != nil {
		if errors.Is(err, ErrAchievementAlreadyAwarded) {
			s.log.Info("achievement already awarded", "user_id", userID, "type", t)
		} else {
			s.log.Error("award achievement failed", "user_id", userID, "type", t, "error", err)
		}
		return nil
	}

	s.log.Info("achievement awarded", "user_id", userID, "type", t, "award_key", achievement.AwardKey)
	return achievement
}

// CheckAndAward evaluates the user for the week and awards every qualification.
// Awards rejected as duplicates are skipped.
func (s *RecognitionService) CheckAndAward(ctx context.Context, userID uuid.UUID, weekStart *time.Time) []models.Achievement {
	week := s.currentWeek(weekStart)
	qualified, err := s.qualify(ctx, userID, week)
	if err != nil {
		s.log.Error("achievement check failed", "user_id", userID, "week_start", week.Format(models.DateLayout), "error", err)
		return []models.Achievement{}
	}

	awarded := make([]models.Achievement, 0, len(qualified))
	for _, q := range qualified {
		if a := s.AwardAchievement(ctx, userID, q.Type, q.Details, q.WeekStart); a != nil {
			awarded = append(awarded, *a)
		}
	}
	return awarded
}

func (s *RecognitionService) CalculateAchievementProgress(achievements []models.Achievement, metrics []models.Metric) []recognition.AchievementProgress {
	return recognition.Progress(achievements, metrics, s.now())
}

func (s *RecognitionService) CalculateUserLevel(achievements []models.Achievement) recognition.LevelResult {
	return recognition.ComputeLevel(achievements)
}

// BuildUserProfile returns nil when any read fails. Callers should treat nil as
// "temporarily unavailable", not as an empty profile.
func (s *RecognitionService) BuildUserProfile(ctx context.Context, userID uuid.UUID) *recognition.UserRecognitionProfile {
	profile, err := s.builder.Build(ctx, userID)
	if err != nil {
		s.log.Error("build recognition profile failed", "user_id", userID, "error", err)
		return nil
	}
	return profile
}

// CalculateTeamStats aggregates the team's leaderboard over the trailing four weeks.
func (s *RecognitionService) CalculateTeamStats(ctx context.Context, teamID uuid.UUID) recognition.TeamStats {
	rows, err := s.store.GetRecognitionLeaderboard(ctx, models.TimeframeFourWeeks, &teamID)
	if err != nil {
		s.log.Error("calculate team stats failed", "team_id", teamID, "error", err)
		return recognition.AggregateTeam(nil)
	}
	return recognition.AggregateTeam(rows)
}

func (s *RecognitionService) GetLeaderboard(ctx context.Context, timeframe models.Timeframe, teamID *uuid.UUID) []models.LeaderboardEntry {
	rows, err := s.store.GetRecognitionLeaderboard(ctx, timeframe, teamID)
	if err != nil {
		s.log.Error("load leaderboard failed", "timeframe", timeframe, "error", err)
		return []models.LeaderboardEntry{}
	}
	return rows
}

func (s *RecognitionService) ListAchievements(ctx context.Context, userID uuid.UUID) []models.Achievement {
	achievements, err := s.store.GetUserAchievements(ctx, userID, recognition.AchievementQuery{})
	if err != nil {
		s.log.Error("list achievements failed", "user_id", userID, "error", err)
		return []models.Achievement{}
	}
	return achievements
}

// LoadLevelInputs reads what CalculateUserLevel and CalculateAchievementProgress
// need. ok is false when either read fails.
func (s *RecognitionService) LoadLevelInputs(ctx context.Context, userID uuid.UUID) (achievements []models.Achievement, metrics []models.Metric, ok bool) {
	achievements, err := s.store.GetUserAchievements(ctx, userID, recognition.AchievementQuery{})
	if err != nil {
		s.log.Error("load achievements failed", "user_id", userID, "error", err)
		return nil, nil, false
	}
	metrics, err = s.store.GetUserMetrics(ctx, userID, s.metricWindow)
	if err != nil {
		s.log.Error("load metrics failed", "user_id", userID, "error", err)
		return nil, nil, false
	}
	return achievements, metrics, true
}

func (s *RecognitionService) FormatAchievementData(a models.Achievement) string {
	return recognition.FormatAchievementData(a)
}
