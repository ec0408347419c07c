// cmd/metrics-import - Loads a metrics pipeline export into the recognition store
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"teamcal/config"
	"teamcal/database"
	"teamcal/logger"
	"teamcal/models"
	"teamcal/services"
)

// Export is the file format written by the metrics pipeline.
type Export struct {
	Users   []ExportUser   `json:"users"`
	Metrics []ExportMetric `json:"metrics"`
}

type ExportUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type ExportMetric struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"metric_name"`
	Value       float64 `json:"metric_value"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
}

var knownMetrics = map[models.MetricName]bool{
	models.MetricWeeklyCompletionRate: true,
	models.MetricEarlyPlanningScore:   true,
	models.MetricConsistencyStreak:    true,
}

func main() {
	path := flag.String("file", "./data/metrics.json", "path to the metrics export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("FATAL: init logger: %v", err)
	}
	defer appLog.Sync()

	raw, err := os.ReadFile(*path)
	if err != nil {
		appLog.Fatal("read export failed", "file", *path, "error", err)
	}
	var export Export
	if err := json.Unmarshal(raw, &export); err != nil {
		appLog.Fatal("parse export failed", "file", *path, "error", err)
	}

	users, metrics, skipped := convert(export)
	for _, reason := range skipped {
		appLog.Warn("skipping row", "reason", reason)
	}
	appLog.Info("export parsed", "users", len(users), "metrics", len(metrics), "skipped", len(skipped))

	if err := database.InitDB(cfg.Database); err != nil {
		appLog.Fatal("database init failed", "error", err)
	}
	defer database.CloseDB()
	db := database.GetDB()
	ctx := context.Background()

	if len(users) > 0 {
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"display_name", "updated_at"}),
			}).
			CreateInBatches(&users, 500).Error
		if err != nil {
			appLog.Fatal("upsert users failed", "error", err)
		}
	}

	store := services.NewRecognitionStore(db)
	if err := store.UpsertMetrics(ctx, metrics); err != nil {
		appLog.Fatal("upsert metrics failed", "error", err)
	}

	count, err := store.CountMetrics(ctx)
	if err != nil {
		appLog.Warn("metrics import completed but row count failed", "imported", len(metrics), "error", err)
		return
	}
	appLog.Info("metrics import completed", "imported", len(metrics), "total_rows", count)
}

// convert validates the export. Bad rows are reported and left out rather than
// failing the whole file.
func convert(export Export) ([]models.User, []models.Metric, []string) {
	var skipped []string

	users := make([]models.User, 0, len(export.Users))
	for i, u := range export.Users {
		id, err := uuid.Parse(u.ID)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("users[%d]: invalid id %q", i, u.ID))
			continue
		}
		user := models.User{ID: id, DisplayName: u.DisplayName, IsActive: true}
		if u.Email != "" {
			email := u.Email
			user.Email = &email
		}
		users = append(users, user)
	}

	metrics := make([]models.Metric, 0, len(export.Metrics))
	for i, m := range export.Metrics {
		userID, err := uuid.Parse(m.UserID)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("metrics[%d]: invalid user_id %q", i, m.UserID))
			continue
		}
		name := models.MetricName(m.Name)
		if !knownMetrics[name] {
			skipped = append(skipped, fmt.Sprintf("metrics[%d]: unknown metric %q", i, m.Name))
			continue
		}
		start, err := models.ParseDate(m.PeriodStart)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("metrics[%d]: invalid period_start %q", i, m.PeriodStart))
			continue
		}
		end := start.AddDate(0, 0, 6)
		if m.PeriodEnd != "" {
			end, err = models.ParseDate(m.PeriodEnd)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("metrics[%d]: invalid period_end %q", i, m.PeriodEnd))
				continue
			}
		}
		metrics = append(metrics, models.Metric{
			UserID:      userID,
			Name:        name,
			Value:       m.Value,
			PeriodStart: start,
			PeriodEnd:   end,
		})
	}
	return users, metrics, skipped
}
