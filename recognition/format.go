package recognition

import (
	"fmt"
	"strconv"

	"teamcal/models"
)

// FormatAchievementData renders a one-line description of an achievement.
// Unknown types come back as their raw identifier; missing or unreadable
// details fall back to the catalog description.
func FormatAchievementData(a models.Achievement) string {
	cfg, ok := LookupAchievement(a.Type)
	if !ok {
		return string(a.Type)
	}

	details, err := a.Details()
	if err != nil || details == nil {
		return withWeek(cfg.Description, a)
	}

	switch d := details.(type) {
	case models.CompletionDetails:
		return withWeek(fmt.Sprintf("Completed %s%% of scheduled updates", formatNumber(d.CompletionRate)), a)
	case models.PlanningDetails:
		return withWeek(fmt.Sprintf("Planned ahead with an early planning score of %s", formatNumber(d.PlanningScore)), a)
	case models.PerfectWeekDetails:
		return withWeek(fmt.Sprintf("Completed %s%% of updates with a planning score of %s",
			formatNumber(d.CompletionRate), formatNumber(d.PlanningScore)), a)
	case models.StreakDetails:
		return fmt.Sprintf("Maintained a %d-week reliability streak", d.StreakLength)
	case models.TeamHelperDetails:
		if d.Note != "" {
			return d.Note
		}
		if d.HelpedMembers > 0 {
			return fmt.Sprintf("Helped %d teammates", d.HelpedMembers)
		}
	case models.SprintChampionDetails:
		if d.SprintName != "" {
			return fmt.Sprintf("Led the team through %s", d.SprintName)
		}
	}
	return withWeek(cfg.Description, a)
}

func withWeek(text string, a models.Achievement) string {
	if a.WeekStart == nil {
		return text
	}
	return text + " (week of " + a.WeekStart.UTC().Format("Jan 2, 2006") + ")"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
