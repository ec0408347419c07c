// handlers/teams.go - Team recognition endpoints
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"teamcal/middleware"
	"teamcal/services"
)

// GetTeamRecognitionStats returns recognition statistics for a team
// GET /api/teams/:id/recognition
func GetTeamRecognitionStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	ctx := c.UserContext()
	team, err := teamService.GetTeamByID(ctx, teamID)
	if errors.Is(err, services.ErrTeamNotFound) {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
	}
	if err != nil {
		handlerLog.Error("load team failed", "team_id", teamID, "error", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load team"})
	}

	if !middleware.IsAdmin(c) && !teamService.IsTeamMember(ctx, userID, teamID) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "You are not a member of this team"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"team_id":   team.ID,
		"team_name": team.Name,
		"stats":     recognitionService.CalculateTeamStats(ctx, teamID),
	})
}
