package recognition

import (
	"math"
	"sort"

	"teamcal/models"
)

// TopPerformerCount caps TeamStats.TopPerformers.
const TopPerformerCount = 5

type TeamStats struct {
	TotalMembers       int                       `json:"total_members"`
	AverageConsistency int                       `json:"average_consistency"`
	TotalAchievements  int                       `json:"total_achievements"`
	TopPerformers      []models.LeaderboardEntry `json:"top_performers"`
}

// AggregateTeam rolls leaderboard rows up into team-level statistics. rows is
// not modified.
func AggregateTeam(rows []models.LeaderboardEntry) TeamStats {
	stats := TeamStats{TopPerformers: []models.LeaderboardEntry{}}
	if len(rows) == 0 {
		return stats
	}

	var consistency float64
	for _, row := range rows {
		consistency += row.ConsistencyScore
		stats.TotalAchievements += row.TotalAchievements
	}
	stats.TotalMembers = len(rows)
	stats.AverageConsistency = int(math.Round(consistency / float64(len(rows))))

	sorted := make([]models.LeaderboardEntry, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ConsistencyScore > sorted[j].ConsistencyScore
	})
	if len(sorted) > TopPerformerCount {
		sorted = sorted[:TopPerformerCount]
	}
	stats.TopPerformers = sorted
	return stats
}
