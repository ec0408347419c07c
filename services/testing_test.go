package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamcal/config"
	"teamcal/database"
	"teamcal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.Database{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "recognition.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestStore(t *testing.T, now time.Time) (*RecognitionStore, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	store := NewRecognitionStore(db)
	store.now = func() time.Time { return now }
	return store, db
}

func createUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	user := models.User{ID: uuid.New(), DisplayName: name, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user.ID
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func weekMetric(userID uuid.UUID, name models.MetricName, value float64, week time.Time) models.Metric {
	return models.Metric{
		UserID:      userID,
		Name:        name,
		Value:       value,
		PeriodStart: week,
		PeriodEnd:   week.AddDate(0, 0, 6),
	}
}
