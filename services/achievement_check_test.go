package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"teamcal/models"
)

func TestRunAchievementCheck(t *testing.T) {
	week := mustDate(t, "2024-07-29")
	store := &memStore{now: week.AddDate(0, 0, 1)}
	var full, partial []uuid.UUID
	for i := 0; i < 12; i++ {
		id := uuid.New()
		if i%3 == 0 {
			partial = append(partial, id)
			store.metrics = append(store.metrics, weekMetric(id, models.MetricWeeklyCompletionRate, 70, week))
			continue
		}
		full = append(full, id)
		store.metrics = append(store.metrics, weekMetric(id, models.MetricWeeklyCompletionRate, 100, week))
	}
	// Last week's metric alone does not make a user active.
	store.metrics = append(store.metrics, weekMetric(uuid.New(), models.MetricWeeklyCompletionRate, 100, week.AddDate(0, 0, -7)))

	svc := newTestService(store, week.AddDate(0, 0, 1))
	summary, err := RunAchievementCheck(context.Background(), store, svc, week, 4)
	if err != nil {
		t.Fatalf("run check: %v", err)
	}
	if summary.UsersChecked != len(full)+len(partial) {
		t.Fatalf("expected %d users checked, got %d", len(full)+len(partial), summary.UsersChecked)
	}
	if summary.Awarded != len(full) || summary.AwardedByType[models.AchievementConsistentUpdater] != len(full) {
		t.Fatalf("expected %d consistent_updater awards, got %+v", len(full), summary)
	}

	// Overlapping runs must not double award.
	again, err := RunAchievementCheck(context.Background(), store, svc, week, 8)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Awarded != 0 {
		t.Fatalf("expected no awards on second run, got %d", again.Awarded)
	}
}

func TestRunAchievementCheckConcurrentRuns(t *testing.T) {
	week := mustDate(t, "2024-07-29")
	store := &memStore{now: week}
	user := uuid.New()
	store.metrics = []models.Metric{weekMetric(user, models.MetricWeeklyCompletionRate, 100, week)}
	svc := newTestService(store, week)

	results := make(chan CheckSummary, 4)
	for i := 0; i < cap(results); i++ {
		go func() {
			summary, _ := RunAchievementCheck(context.Background(), store, svc, week, 2)
			results <- summary
		}()
	}
	total := 0
	for i := 0; i < cap(results); i++ {
		total += (<-results).Awarded
	}
	if total != 1 {
		t.Fatalf("expected exactly one award across concurrent runs, got %d", total)
	}
}

func TestRunAchievementCheckListError(t *testing.T) {
	store := &memStore{readErr: errors.New("timeout")}
	svc := newTestService(store, mustDate(t, "2024-07-29"))

	if _, err := RunAchievementCheck(context.Background(), store, svc, mustDate(t, "2024-07-29"), 2); err == nil {
		t.Fatal("expected list error")
	}
}

func TestRunAchievementCheckCancelled(t *testing.T) {
	week := mustDate(t, "2024-07-29")
	store := &memStore{now: week, metrics: []models.Metric{weekMetric(uuid.New(), models.MetricWeeklyCompletionRate, 100, week)}}
	svc := newTestService(store, week)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunAchievementCheck(ctx, store, svc, week, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
