// services/achievement_check.go - Periodic achievement check across users
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"teamcal/models"
)

type ActiveUserLister interface {
	ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

type CheckSummary struct {
	WeekStart     time.Time
	UsersChecked  int
	Awarded       int
	AwardedByType map[models.AchievementType]int
}

// RunAchievementCheck evaluates every user with metrics in the target week and
// awards what they qualify for, at most concurrency users at a time. Overlapping
// runs are safe because duplicate awards are rejected by the store.
func RunAchievementCheck(ctx context.Context, users ActiveUserLister, svc *RecognitionService, weekStart time.Time, concurrency int) (CheckSummary, error) {
	week := models.DateOf(weekStart)
	summary := CheckSummary{
		WeekStart:     week,
		AwardedByType: make(map[models.AchievementType]int),
	}

	ids, err := users.ListActiveUserIDs(ctx, week)
	if err != nil {
		return summary, fmt.Errorf("achievement check: %w", err)
	}

	if concurrency < 1 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			awarded := svc.CheckAndAward(gctx, id, &week)

			mu.Lock()
			defer mu.Unlock()
			summary.UsersChecked++
			summary.Awarded += len(awarded)
			for _, a := range awarded {
				summary.AwardedByType[a.Type]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("achievement check: %w", err)
	}
	return summary, nil
}
