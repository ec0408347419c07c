// cmd/achievement-check - Periodic achievement evaluation for every active user
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"teamcal/config"
	"teamcal/database"
	"teamcal/logger"
	"teamcal/models"
	"teamcal/services"
)

func main() {
	weekFlag := flag.String("week", "", "week start to evaluate (YYYY-MM-DD, default: current week)")
	concurrency := flag.Int("concurrency", 0, "users evaluated at once (default: RECOGNITION_CHECK_CONCURRENCY)")
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

	week := models.WeekStartOf(time.Now())
	if *weekFlag != "" {
		parsed, err := models.ParseDate(*weekFlag)
		if err != nil {
			appLog.Fatal("invalid -week", "value", *weekFlag, "error", err)
		}
		week = parsed
	}
	workers := cfg.Recognition.CheckConcurrency
	if *concurrency > 0 {
		workers = *concurrency
	}

	if err := database.InitDB(cfg.Database); err != nil {
		appLog.Fatal("database init failed", "error", err)
	}
	defer database.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := services.NewRecognitionStore(database.GetDB())
	svc := services.NewRecognitionService(store, appLog.With("job", "achievement-check"), cfg.Recognition)

	started := time.Now()
	summary, err := services.RunAchievementCheck(ctx, store, svc, week, workers)
	if err != nil {
		appLog.Error("achievement check aborted", "week_start", week.Format(models.DateLayout), "users_checked", summary.UsersChecked, "error", err)
		return
	}

	appLog.Info("achievement check completed",
		"week_start", summary.WeekStart.Format(models.DateLayout),
		"users_checked", summary.UsersChecked,
		"awarded", summary.Awarded,
		"by_type", summary.AwardedByType,
		"duration", time.Since(started).String(),
	)
}
