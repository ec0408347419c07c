package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"teamcal/models"
	"teamcal/recognition"
)

func TestCreateAchievementRejectsDuplicateWeek(t *testing.T) {
	week := mustDate(t, "2024-07-29")
	store, db := newTestStore(t, week.Add(10*time.Hour))
	user := createUser(t, db, "Ada")
	ctx := context.Background()

	in := NewAchievement{
		UserID:    user,
		Type:      models.AchievementConsistentUpdater,
		Details:   models.CompletionDetails{CompletionRate: 100},
		WeekStart: &week,
	}
	first, err := store.CreateAchievement(ctx, in)
	if err != nil {
		t.Fatalf("create achievement: %v", err)
	}
	if first.AwardKey != "2024-07-29" {
		t.Fatalf("expected week award key, got %q", first.AwardKey)
	}

	_, err = store.CreateAchievement(ctx, in)
	if !errors.Is(err, ErrAchievementAlreadyAwarded) {
		t.Fatalf("expected ErrAchievementAlreadyAwarded, got %v", err)
	}

	next := week.AddDate(0, 0, 7)
	in.WeekStart = &next
	if _, err := store.CreateAchievement(ctx, in); err != nil {
		t.Fatalf("next week should be allowed: %v", err)
	}
}

func TestCreateAchievementStreakKeyedByLength(t *testing.T) {
	week := mustDate(t, "2024-07-29")
	store, db := newTestStore(t, week)
	user := createUser(t, db, "Grace")
	ctx := context.Background()

	streak := func(length int, ws time.Time) error {
		_, err := store.CreateAchievement(ctx, NewAchievement{
			UserID:    user,
			Type:      models.AchievementReliabilityStreak,
			Details:   models.StreakDetails{StreakLength: length},
			WeekStart: &ws,
		})
		return err
	}

	if err := streak(5, week); err != nil {
		t.Fatalf("first streak: %v", err)
	}
	if err := streak(5, week.AddDate(0, 0, 7)); !errors.Is(err, ErrAchievementAlreadyAwarded) {
		t.Fatalf("same length in a later week should be a duplicate, got %v", err)
	}
	if err := streak(6, week.AddDate(0, 0, 7)); err != nil {
		t.Fatalf("longer streak should be allowed: %v", err)
	}
}

func TestCreateAchievementValidatesInput(t *testing.T) {
	store, db := newTestStore(t, time.Now())
	user := createUser(t, db, "Linus")
	ctx := context.Background()

	_, err := store.CreateAchievement(ctx, NewAchievement{UserID: user, Type: "legacy_badge"})
	if !errors.Is(err, ErrUnknownAchievementType) {
		t.Fatalf("expected ErrUnknownAchievementType, got %v", err)
	}

	_, err = store.CreateAchievement(ctx, NewAchievement{
		UserID:  user,
		Type:    models.AchievementTeamHelper,
		Details: models.StreakDetails{StreakLength: 3},
	})
	if !errors.Is(err, ErrDetailsMismatch) {
		t.Fatalf("expected ErrDetailsMismatch, got %v", err)
	}
}

func TestGetUserAchievementsRoundTrip(t *testing.T) {
	week := mustDate(t, "2024-07-29")
	store, db := newTestStore(t, week)
	user := createUser(t, db, "Ken")
	ctx := context.Background()

	if _, err := store.CreateAchievement(ctx, NewAchievement{
		UserID:  user,
		Type:    models.AchievementTeamHelper,
		Details: models.TeamHelperDetails{HelpedMembers: 2, Note: "Covered standups"},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	store.now = func() time.Time { return week.Add(24 * time.Hour) }
	if _, err := store.CreateAchievement(ctx, NewAchievement{
		UserID:    user,
		Type:      models.AchievementEarlyPlanner,
		Details:   models.PlanningDetails{PlanningScore: 4},
		WeekStart: &week,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetUserAchievements(ctx, user, recognition.AchievementQuery{})
	if err != nil {
		t.Fatalf("get achievements: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 achievements, got %d", len(got))
	}
	if got[0].Type != models.AchievementEarlyPlanner {
		t.Fatalf("expected newest first, got %s", got[0].Type)
	}
	details, err := got[1].Details()
	if err != nil {
		t.Fatalf("decode details: %v", err)
	}
	helper, ok := details.(models.TeamHelperDetails)
	if !ok || helper.Note != "Covered standups" || helper.HelpedMembers != 2 {
		t.Fatalf("details did not round trip: %#v", details)
	}

	since := week.Add(12 * time.Hour)
	recent, err := store.GetUserAchievements(ctx, user, recognition.AchievementQuery{StartDate: &since})
	if err != nil {
		t.Fatalf("get recent achievements: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent achievement, got %d", len(recent))
	}

	limited, err := store.GetUserAchievements(ctx, user, recognition.AchievementQuery{Limit: 1})
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected 1 achievement with limit, got %d (%v)", len(limited), err)
	}

	helpers, err := store.GetUserAchievements(ctx, user, recognition.AchievementQuery{
		Types: []models.AchievementType{models.AchievementTeamHelper},
	})
	if err != nil {
		t.Fatalf("get achievements by type: %v", err)
	}
	if len(helpers) != 1 || helpers[0].Type != models.AchievementTeamHelper {
		t.Fatalf("expected only the team_helper award, got %+v", helpers)
	}
}

func TestUpsertMetricsReplacesValue(t *testing.T) {
	week := mustDate(t, "2024-07-29")
	store, db := newTestStore(t, week)
	user := createUser(t, db, "Barbara")
	ctx := context.Background()

	if err := store.UpsertMetrics(ctx, []models.Metric{
		weekMetric(user, models.MetricWeeklyCompletionRate, 80, week.AddDate(0, 0, -7)),
		weekMetric(user, models.MetricWeeklyCompletionRate, 60, week),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.UpsertMetrics(ctx, []models.Metric{
		weekMetric(user, models.MetricWeeklyCompletionRate, 100, week),
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	metrics, err := store.GetUserMetrics(ctx, user, 10)
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("expected 2 metric rows, got %d", len(metrics))
	}
	if !models.SameDate(metrics[0].PeriodStart, week) || metrics[0].Value != 100 {
		t.Fatalf("expected newest period with replaced value, got %+v", metrics[0])
	}

	limited, err := store.GetUserMetrics(ctx, user, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected 1 metric with limit, got %d (%v)", len(limited), err)
	}

	count, err := store.CountMetrics(ctx)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 stored rows, got %d (%v)", count, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	_ = sqlDB.Close()
	if _, err := store.CountMetrics(ctx); err == nil {
		t.Fatal("expected an error from a closed database")
	}
}

func TestGetRecognitionLeaderboard(t *testing.T) {
	week := mustDate(t, "2024-07-29")
	store, db := newTestStore(t, week.AddDate(0, 0, 2))
	ctx := context.Background()

	ada := createUser(t, db, "Ada")
	bob := createUser(t, db, "Bob")
	cy := createUser(t, db, "Cy")

	if err := store.UpsertMetrics(ctx, []models.Metric{
		weekMetric(ada, models.MetricWeeklyCompletionRate, 100, week),
		weekMetric(ada, models.MetricWeeklyCompletionRate, 90, week.AddDate(0, 0, -7)),
		weekMetric(ada, models.MetricConsistencyStreak, 2, week.AddDate(0, 0, -7)),
		weekMetric(ada, models.MetricConsistencyStreak, 4, week),
		weekMetric(bob, models.MetricWeeklyCompletionRate, 85, week),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := store.CreateAchievement(ctx, NewAchievement{
		UserID:    ada,
		Type:      models.AchievementConsistentUpdater,
		Details:   models.CompletionDetails{CompletionRate: 100},
		WeekStart: &week,
	}); err != nil {
		t.Fatalf("create achievement: %v", err)
	}

	rows, err := store.GetRecognitionLeaderboard(ctx, models.TimeframeAll, nil)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	top := rows[0]
	if top.UserID != ada || top.Rank != 1 || top.DisplayName != "Ada" {
		t.Fatalf("expected Ada first, got %+v", top)
	}
	if top.ConsistencyScore != 95 || top.CurrentStreak != 4 || top.TotalAchievements != 1 || top.TotalPoints != 50 {
		t.Fatalf("unexpected Ada row: %+v", top)
	}
	if rows[1].UserID != bob || rows[1].Rank != 2 || rows[1].ConsistencyScore != 85 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}

	weekRows, err := store.GetRecognitionLeaderboard(ctx, models.TimeframeWeek, nil)
	if err != nil {
		t.Fatalf("weekly leaderboard: %v", err)
	}
	if len(weekRows) != 2 || weekRows[0].ConsistencyScore != 100 {
		t.Fatalf("weekly window should only average this week, got %+v", weekRows)
	}

	team := models.Team{ID: uuid.New(), Name: "Platform", IsActive: true}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("create team: %v", err)
	}
	for _, id := range []uuid.UUID{bob, cy} {
		member := models.TeamMember{TeamID: team.ID, UserID: id, Role: models.TeamRoleMember, JoinedAt: week, IsActive: true}
		if err := db.Create(&member).Error; err != nil {
			t.Fatalf("create member: %v", err)
		}
	}

	teamRows, err := store.GetRecognitionLeaderboard(ctx, models.TimeframeAll, &team.ID)
	if err != nil {
		t.Fatalf("team leaderboard: %v", err)
	}
	if len(teamRows) != 2 {
		t.Fatalf("expected every member, got %+v", teamRows)
	}
	if teamRows[0].UserID != bob || teamRows[1].UserID != cy || teamRows[1].ConsistencyScore != 0 {
		t.Fatalf("unexpected team rows: %+v", teamRows)
	}

	empty := uuid.New()
	none, err := store.GetRecognitionLeaderboard(ctx, models.TimeframeAll, &empty)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty leaderboard for unknown team, got %+v (%v)", none, err)
	}
}

func TestGetRecognitionLeaderboardFourWeekWindow(t *testing.T) {
	store, db := newTestStore(t, mustDate(t, "2024-08-01"))
	ctx := context.Background()

	ada := createUser(t, db, "Ada")
	if err := store.UpsertMetrics(ctx, []models.Metric{
		weekMetric(ada, models.MetricWeeklyCompletionRate, 100, mustDate(t, "2024-07-29")),
		weekMetric(ada, models.MetricWeeklyCompletionRate, 80, mustDate(t, "2024-07-22")),
		weekMetric(ada, models.MetricWeeklyCompletionRate, 20, mustDate(t, "2024-07-01")),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := store.GetRecognitionLeaderboard(ctx, models.TimeframeFourWeeks, nil)
	if err != nil {
		t.Fatalf("four week leaderboard: %v", err)
	}
	if len(rows) != 1 || rows[0].ConsistencyScore != 90 {
		t.Fatalf("expected the last four weeks averaged, got %+v", rows)
	}

	monthRows, err := store.GetRecognitionLeaderboard(ctx, models.TimeframeMonth, nil)
	if err != nil {
		t.Fatalf("monthly leaderboard: %v", err)
	}
	if len(monthRows) != 0 {
		t.Fatalf("expected an empty month on its first day, got %+v", monthRows)
	}
}

func TestListActiveUserIDs(t *testing.T) {
	week := mustDate(t, "2024-07-29")
	store, db := newTestStore(t, week)
	ctx := context.Background()

	current := createUser(t, db, "Current")
	stale := createUser(t, db, "Stale")
	if err := store.UpsertMetrics(ctx, []models.Metric{
		weekMetric(current, models.MetricWeeklyCompletionRate, 50, week),
		weekMetric(current, models.MetricEarlyPlanningScore, 1, week),
		weekMetric(stale, models.MetricWeeklyCompletionRate, 50, week.AddDate(0, 0, -7)),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	ids, err := store.ListActiveUserIDs(ctx, week)
	if err != nil {
		t.Fatalf("list active users: %v", err)
	}
	if len(ids) != 1 || ids[0] != current {
		t.Fatalf("expected only the current user, got %v", ids)
	}
}
