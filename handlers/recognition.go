// handlers/recognition.go - Recognition HTTP handlers
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"teamcal/logger"
	"teamcal/middleware"
	"teamcal/models"
	"teamcal/recognition"
	"teamcal/services"
)

var (
	recognitionService *services.RecognitionService
	teamService        *services.TeamService
	handlerLog         = logger.Nop()
)

// InitRecognitionHandlers wires the services used by every handler in this package
func InitRecognitionHandlers(rs *services.RecognitionService, ts *services.TeamService, lg *logger.Logger) {
	if rs == nil || ts == nil {
		panic("recognition handlers need both services")
	}
	recognitionService = rs
	teamService = ts
	if lg != nil {
		handlerLog = lg
	}
}

// AchievementView is an achievement as shown to users.
type AchievementView struct {
	models.Achievement
	Title       string `json:"title"`
	Icon        string `json:"icon,omitempty"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

func NewAchievementView(a models.Achievement) AchievementView {
	view := AchievementView{
		Achievement: a,
		Title:       string(a.Type),
		Description: recognition.FormatAchievementData(a),
	}
	if cfg, ok := recognition.LookupAchievement(a.Type); ok {
		view.Title = cfg.Title
		view.Icon = cfg.Icon
		view.Points = cfg.Points
	}
	return view
}

// ProfileView is a recognition profile whose achievements carry their display fields.
type ProfileView struct {
	*recognition.UserRecognitionProfile
	Achievements []AchievementView `json:"achievements"`
}

func achievementViews(achievements []models.Achievement) []AchievementView {
	views := make([]AchievementView, 0, len(achievements))
	for _, a := range achievements {
		views = append(views, NewAchievementView(a))
	}
	return views
}

// GetRecognitionCatalog returns the achievement and level catalogs
// GET /api/recognition/catalog
func GetRecognitionCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": recognition.Catalog(),
		"levels":       recognition.Levels(),
	})
}

// GetMyProfile returns the caller's recognition profile
// GET /api/recognition/me/profile
func GetMyProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	profile := recognitionService.BuildUserProfile(c.UserContext(), userID)
	if profile == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Profile temporarily unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"profile": ProfileView{
			UserRecognitionProfile: profile,
			Achievements:           achievementViews(profile.Achievements),
		},
	})
}

// GetMyAchievements lists the caller's achievements with descriptions
// GET /api/recognition/me/achievements
func GetMyAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	achievements := recognitionService.ListAchievements(c.UserContext(), userID)
	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": achievementViews(achievements),
		"total":        len(achievements),
	})
}

// GetMyLevel returns the caller's level standing
// GET /api/recognition/me/level
func GetMyLevel(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	achievements, _, ok := recognitionService.LoadLevelInputs(c.UserContext(), userID)
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Level temporarily unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"level":   recognitionService.CalculateUserLevel(achievements),
	})
}

// GetMyProgress returns progress toward achievements the caller has not earned yet
// GET /api/recognition/me/progress
func GetMyProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	achievements, metrics, ok := recognitionService.LoadLevelInputs(c.UserContext(), userID)
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Progress temporarily unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"progress": recognitionService.CalculateAchievementProgress(achievements, metrics),
	})
}

// CheckMyAchievements evaluates the caller for a week and awards what they qualify for
// POST /api/recognition/me/check?week_start=2024-07-29
func CheckMyAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	weekStart, err := parseWeekStart(c.Query("week_start"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	awarded := recognitionService.CheckAndAward(c.UserContext(), userID, weekStart)
	return c.JSON(fiber.Map{
		"success":          true,
		"new_achievements": achievementViews(awarded),
	})
}

// parseWeekStart returns nil for an empty value so the service picks the current week.
func parseWeekStart(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	week, err := models.ParseDate(raw)
	if err != nil {
		return nil, fiber.NewError(400, services.ErrInvalidWeekStart.Error()+": expected YYYY-MM-DD")
	}
	return &week, nil
}
