package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"teamcal/handlers"
	"teamcal/middleware"
	"teamcal/models"
	"teamcal/services"
)

var (
	recognitionService *services.RecognitionService
	teamService        *services.TeamService
	validate           = validator.New()
)

// InitAchievementHandlers wires the services used by the award endpoints
func InitAchievementHandlers(rs *services.RecognitionService, ts *services.TeamService) {
	recognitionService = rs
	teamService = ts
}

// AwardRequest is a manual award by a team lead. Only the fields that belong
// to Type are used.
type AwardRequest struct {
	UserID         string  `json:"user_id" validate:"required,uuid"`
	Type           string  `json:"type" validate:"required,oneof=consistent_updater early_planner perfect_week team_helper sprint_champion reliability_streak"`
	WeekStart      string  `json:"week_start" validate:"omitempty,datetime=2006-01-02"`
	StreakLength   int     `json:"streak_length" validate:"omitempty,min=1"`
	CompletionRate float64 `json:"completion_rate" validate:"omitempty,min=0,max=100"`
	PlanningScore  float64 `json:"planning_score" validate:"omitempty,min=0"`
	HelpedMembers  int     `json:"helped_members" validate:"omitempty,min=0"`
	Note           string  `json:"note" validate:"omitempty,max=280"`
	SprintName     string  `json:"sprint_name" validate:"omitempty,max=120"`
}

func (r AwardRequest) details() models.AchievementDetails {
	switch models.AchievementType(r.Type) {
	case models.AchievementConsistentUpdater:
		return models.CompletionDetails{CompletionRate: r.CompletionRate}
	case models.AchievementEarlyPlanner:
		return models.PlanningDetails{PlanningScore: r.PlanningScore}
	case models.AchievementPerfectWeek:
		return models.PerfectWeekDetails{CompletionRate: r.CompletionRate, PlanningScore: r.PlanningScore}
	case models.AchievementTeamHelper:
		return models.TeamHelperDetails{HelpedMembers: r.HelpedMembers, Note: strings.TrimSpace(r.Note)}
	case models.AchievementSprintChampion:
		return models.SprintChampionDetails{SprintName: strings.TrimSpace(r.SprintName), CompletionRate: r.CompletionRate}
	case models.AchievementReliabilityStreak:
		return models.StreakDetails{StreakLength: r.StreakLength}
	}
	return nil
}

// AwardAchievement grants an achievement by hand
// POST /api/admin/recognition/award
func AwardAchievement(c *fiber.Ctx) error {
	req, err := parseAwardRequest(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return grant(c, req)
}

// AwardTeamAchievement lets a team owner or admin recognize a member of their team
// POST /api/teams/:id/recognition/award
func AwardTeamAchievement(c *fiber.Ctx) error {
	callerID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	req, err := parseAwardRequest(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	ctx := c.UserContext()
	if _, err := teamService.GetTeamByID(ctx, teamID); err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load team"})
	}
	if !middleware.IsAdmin(c) && !teamService.IsTeamAdmin(ctx, callerID, teamID) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Only team owners and admins can award achievements"})
	}
	if !teamService.IsTeamMember(ctx, req.userID, teamID) {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "User is not a member of this team"})
	}

	return grant(c, req)
}

type award struct {
	userID  uuid.UUID
	typ     models.AchievementType
	details models.AchievementDetails
	week    *time.Time
}

func parseAwardRequest(c *fiber.Ctx) (award, error) {
	var req AwardRequest
	if err := c.BodyParser(&req); err != nil {
		return award{}, errors.New("Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return award{}, err
	}

	t := models.AchievementType(req.Type)
	if t == models.AchievementReliabilityStreak && req.StreakLength == 0 {
		return award{}, errors.New("streak_length is required for reliability_streak")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return award{}, errors.New("Invalid user_id")
	}

	var week *time.Time
	if req.WeekStart != "" {
		parsed, err := models.ParseDate(req.WeekStart)
		if err != nil {
			return award{}, errors.New("Invalid week_start")
		}
		week = &parsed
	}

	return award{userID: userID, typ: t, details: req.details(), week: week}, nil
}

func grant(c *fiber.Ctx, a award) error {
	achievement := recognitionService.AwardAchievement(c.UserContext(), a.userID, a.typ, a.details, a.week)
	if achievement == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Achievement was not awarded. It may already exist for this week.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"achievement": handlers.NewAchievementView(*achievement),
	})
}
