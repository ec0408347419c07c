package main

import (
	"testing"

	"github.com/google/uuid"

	"teamcal/models"
)

func TestConvertSkipsBadRows(t *testing.T) {
	user := uuid.NewString()
	export := Export{
		Users: []ExportUser{
			{ID: user, DisplayName: "Ada", Email: "ada@example.com"},
			{ID: "not-a-uuid", DisplayName: "Ghost"},
		},
		Metrics: []ExportMetric{
			{UserID: user, Name: "weekly_completion_rate", Value: 100, PeriodStart: "2024-07-29"},
			{UserID: user, Name: "early_planning_score", Value: 2, PeriodStart: "2024-07-29", PeriodEnd: "2024-08-02"},
			{UserID: user, Name: "mood", Value: 1, PeriodStart: "2024-07-29"},
			{UserID: user, Name: "consistency_streak", Value: 3, PeriodStart: "07/29/2024"},
		},
	}

	users, metrics, skipped := convert(export)
	if len(users) != 1 || users[0].Email == nil || *users[0].Email != "ada@example.com" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if len(metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %+v", metrics)
	}
	if len(skipped) != 3 {
		t.Fatalf("expected 3 skipped rows, got %v", skipped)
	}
	if got := metrics[0].PeriodEnd.Format(models.DateLayout); got != "2024-08-04" {
		t.Fatalf("expected default period end 2024-08-04, got %s", got)
	}
	if got := metrics[1].PeriodEnd.Format(models.DateLayout); got != "2024-08-02" {
		t.Fatalf("expected explicit period end, got %s", got)
	}
}
