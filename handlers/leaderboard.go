// handlers/leaderboard.go
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"teamcal/models"
)

// GetRecognitionLeaderboard returns ranked consistency scores
// GET /api/recognition/leaderboard?timeframe=month&team_id=<uuid>&limit=50
func GetRecognitionLeaderboard(c *fiber.Ctx) error {
	timeframe := models.ParseTimeframe(c.Query("timeframe"))
	limit := clampInt(parseIntDefault(c.Query("limit"), 50), 1, 100)

	var teamID *uuid.UUID
	if raw := c.Query("team_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
		}
		teamID = &id
	}

	entries := recognitionService.GetLeaderboard(c.UserContext(), timeframe, teamID)
	total := len(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"entries":   entries,
		"timeframe": timeframe,
		"total":     total,
		"limit":     limit,
	})
}

// helpers
func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
