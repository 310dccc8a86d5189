package calendar

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/syrilster/wfh-scheduler-web/internal/model"
)

const defaultConcurrency = 8

type TeamScheduleFetcher interface {
	GetTeamSchedule(ctx context.Context, managerID int, startDate string, endDate string) (*model.TeamSchedule, error)
}

// Loader fetches one week of team schedules for every manager.
type Loader struct {
	client      TeamScheduleFetcher
	concurrency int
}

func NewLoader(client TeamScheduleFetcher, concurrency int) *Loader {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Loader{client: client, concurrency: concurrency}
}

// LoadWeek fetches the team schedule of every manager for the week starting at weekStart.
// Fetches run concurrently and are all joined before returning. A failing manager is
// recorded in Failures and does not affect the others. Cancelling ctx aborts the fetches
// still in flight.
func (l *Loader) LoadWeek(ctx context.Context, weekStart time.Time, managers model.DepartmentManagers) Snapshot {
	ctxLogger := log.WithContext(ctx)
	snap := NewSnapshot(weekStart)
	startDate := FormatDate(snap.WeekStart)
	endDate := FormatDate(snap.WeekStart.AddDate(0, 0, daysInWeek-1))

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(l.concurrency)

	for _, id := range managerIDs(managers) {
		managerID := id
		g.Go(func() error {
			team, err := l.client.GetTeamSchedule(ctx, managerID, startDate, endDate)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				ctxLogger.WithError(err).WithField("manager_id", managerID).Warn("team schedule unavailable")
				snap.Failures[managerID] = err
				return nil
			}
			snap.Teams[managerID] = team
			return nil
		})
	}
	_ = g.Wait()

	ctxLogger.WithFields(log.Fields{
		"week_start": startDate,
		"loaded":     len(snap.Teams),
		"failed":     len(snap.Failures),
	}).Info("loaded team schedules")
	return snap
}

// managerIDs lists each manager once, even when listed under several departments.
func managerIDs(managers model.DepartmentManagers) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, dept := range Departments(managers) {
		for _, m := range managers[dept] {
			if seen[m.StaffID] {
				continue
			}
			seen[m.StaffID] = true
			ids = append(ids, m.StaffID)
		}
	}
	return ids
}
