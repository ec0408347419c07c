// database/migrate.go - Database Migration Runner
package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"teamcal/models"
)

// RunMigrations creates the directory and recognition tables. The unique index
// on achievements (user_id, type, award_key) is declared on the model and is
// what rejects duplicate awards from concurrent writers.
func RunMigrations(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Metric{},
		&models.Achievement{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := createRecognitionIndexes(db); err != nil {
		return err
	}

	log.Println("✅ All migrations completed successfully")
	return nil
}

func createRecognitionIndexes(db *gorm.DB) error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_user_metrics_recent ON user_metrics(user_id, period_start DESC)",
		"CREATE INDEX IF NOT EXISTS idx_achievements_user_earned ON achievements(user_id, earned_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_team_members_team_user ON team_members(team_id, user_id)",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
