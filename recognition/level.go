package recognition

import "teamcal/models"

type LevelResult struct {
	TotalPoints       int               `json:"total_points"`
	CurrentLevel      RecognitionLevel  `json:"current_level"`
	NextLevel         *RecognitionLevel `json:"next_level"`
	PointsToNextLevel int               `json:"points_to_next_level"`
	LevelProgress     float64           `json:"level_progress"`
}

// TotalPoints sums catalog points over achievements. Unknown types add nothing.
func TotalPoints(achievements []models.Achievement) int {
	total := 0
	for _, a := range achievements {
		total += PointsFor(a.Type)
	}
	return total
}

// ComputeLevel converts a user's achievements into their level standing.
func ComputeLevel(achievements []models.Achievement) LevelResult {
	return LevelForPoints(TotalPoints(achievements))
}

// LevelForPoints walks the level catalog in ascending order and picks the last
// level whose threshold is met.
func LevelForPoints(total int) LevelResult {
	current := 0
	for i, lvl := range levelCatalog {
		if lvl.MinimumPoints <= total {
			current = i
		}
	}

	res := LevelResult{
		TotalPoints:   total,
		CurrentLevel:  levelCatalog[current],
		LevelProgress: 100,
	}
	if current+1 < len(levelCatalog) {
		next := levelCatalog[current+1]
		res.NextLevel = &next
		res.PointsToNextLevel = next.MinimumPoints - total
		band := next.MinimumPoints - res.CurrentLevel.MinimumPoints
		res.LevelProgress = float64(total-res.CurrentLevel.MinimumPoints) / float64(band) * 100
		if res.LevelProgress < 0 {
			res.LevelProgress = 0
		}
	}
	return res
}
