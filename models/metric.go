// models/metric.go - Activity metrics produced by the external metrics pipeline
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MetricName string

const (
	MetricWeeklyCompletionRate MetricName = "weekly_completion_rate"
	MetricEarlyPlanningScore   MetricName = "early_planning_score"
	MetricConsistencyStreak    MetricName = "consistency_streak"
)

// Metric is one measured quantity for one user over one period (usually a week).
// Rows are written by the metrics pipeline and only read by the recognition engine.
type Metric struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_metrics_user_name_period,priority:1"`
	Name        MetricName `json:"metric_name" gorm:"not null;size:64;uniqueIndex:idx_metrics_user_name_period,priority:2"`
	Value       float64    `json:"metric_value" gorm:"not null;default:0"`
	PeriodStart time.Time  `json:"period_start" gorm:"not null;uniqueIndex:idx_metrics_user_name_period,priority:3"`
	PeriodEnd   time.Time  `json:"period_end" gorm:"not null"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Metric) TableName() string {
	return "user_metrics"
}

func (m *Metric) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
