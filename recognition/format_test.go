package recognition

import (
	"testing"
	"time"

	"teamcal/models"
)

func TestFormatAchievementData(t *testing.T) {
	week := time.Date(2024, time.July, 29, 0, 0, 0, 0, time.UTC)
	encode := func(d models.AchievementDetails) []byte {
		raw, err := models.EncodeDetails(d)
		if err != nil {
			t.Fatalf("encode details: %v", err)
		}
		return raw
	}

	tests := []struct {
		name        string
		achievement models.Achievement
		want        string
	}{
		{
			name:        "unknown type",
			achievement: models.Achievement{Type: "legacy_badge"},
			want:        "legacy_badge",
		},
		{
			name: "completion",
			achievement: models.Achievement{
				Type:      models.AchievementConsistentUpdater,
				Data:      encode(models.CompletionDetails{CompletionRate: 100}),
				WeekStart: &week,
			},
			want: "Completed 100% of scheduled updates (week of Jul 29, 2024)",
		},
		{
			name: "streak",
			achievement: models.Achievement{
				Type: models.AchievementReliabilityStreak,
				Data: encode(models.StreakDetails{StreakLength: 5}),
			},
			want: "Maintained a 5-week reliability streak",
		},
		{
			name: "helper note",
			achievement: models.Achievement{
				Type: models.AchievementTeamHelper,
				Data: encode(models.TeamHelperDetails{Note: "Covered the on-call rotation"}),
			},
			want: "Covered the on-call rotation",
		},
		{
			name:        "no details",
			achievement: models.Achievement{Type: models.AchievementSprintChampion},
			want:        "Led the team through a sprint",
		},
		{
			name: "unreadable details",
			achievement: models.Achievement{
				Type:      models.AchievementEarlyPlanner,
				Data:      []byte(`{"planning_score":"high"}`),
				WeekStart: &week,
			},
			want: "Planned the week ahead of schedule (week of Jul 29, 2024)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAchievementData(tt.achievement); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
