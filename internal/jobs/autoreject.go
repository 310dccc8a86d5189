// Package jobs runs scheduled maintenance calls against the backend.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/syrilster/wfh-scheduler-web/internal/model"
	"github.com/syrilster/wfh-scheduler-web/internal/reqid"
)

const autoRejectTimeout = 30 * time.Second

type AutoRejecter interface {
	AutoReject(ctx context.Context) (*model.AutoRejectResponse, error)
}

// Scheduler triggers the backend's sweep of stale pending requests.
type Scheduler struct {
	cron   *cron.Cron
	client AutoRejecter
}

func NewScheduler(client AutoRejecter, location *time.Location) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(location)),
		client: client,
	}
}

// ScheduleAutoReject registers the sweep under a standard five-field cron spec.
func (s *Scheduler) ScheduleAutoReject(spec string) (cron.EntryID, error) {
	entryID, err := s.cron.AddFunc(spec, func() {
		s.RunAutoReject(context.Background())
	})
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"spec": spec, "entry_id": entryID}).Info("scheduled auto-reject job")
	return entryID, nil
}

// RunAutoReject performs one sweep.
func (s *Scheduler) RunAutoReject(ctx context.Context) {
	ctx, cancel := context.WithTimeout(reqid.WithRequestID(ctx, reqid.New()), autoRejectTimeout)
	defer cancel()

	ctxLogger := log.WithContext(ctx).WithField("request_id", reqid.FromContext(ctx))
	resp, err := s.client.AutoReject(ctx)
	if err != nil {
		ctxLogger.WithError(err).Error("auto-reject job failed")
		return
	}
	ctxLogger.Infof("auto-reject job finished: %s", resp.Message)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
