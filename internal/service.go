package internal

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/syrilster/wfh-scheduler-web/internal/approval"
	"github.com/syrilster/wfh-scheduler-web/internal/calendar"
	customcontext "github.com/syrilster/wfh-scheduler-web/internal/context"
	"github.com/syrilster/wfh-scheduler-web/internal/model"
	"github.com/syrilster/wfh-scheduler-web/internal/wfh"
)

const (
	managersKey     = "managers"
	managersTimeout = 30 * time.Second
)

type Service struct {
	client          wfh.ClientInterface
	loader          *calendar.Loader
	today           func() time.Time
	decisionTimeout time.Duration
	managers        singleflight.Group
}

func NewService(c wfh.ClientInterface, concurrency int, today func() time.Time, decisionTimeout time.Duration) *Service {
	return &Service{
		client:          c,
		loader:          calendar.NewLoader(c, concurrency),
		today:           today,
		decisionTimeout: decisionTimeout,
	}
}

func (service *Service) Today() time.Time {
	return calendar.DateOf(service.today())
}

// Managers fetches the department managers. Concurrent callers share one backend call,
// which runs detached from any one caller; a caller that gives up only stops waiting.
func (service *Service) Managers(ctx context.Context) (model.DepartmentManagers, error) {
	ch := service.managers.DoChan(managersKey, func() (interface{}, error) {
		fetchCtx, cancel := customcontext.DetachWithTimeout(ctx, managersTimeout)
		defer cancel()
		return service.client.GetManagers(fetchCtx)
	})

	select {
	case <-ctx.Done():
		log.WithContext(ctx).WithError(ctx.Err()).Warn("stopped waiting for department managers")
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			log.WithContext(ctx).WithError(res.Err).Error("Error fetching department managers")
			return nil, res.Err
		}
		if res.Shared {
			log.WithContext(ctx).Debug("shared in-flight managers fetch")
		}
		return res.Val.(model.DepartmentManagers), nil
	}
}

// Calendar loads the attendance grid for the window. Every manager's team is fetched
// whatever the filter, and nothing is fetched when the window has no visible dates.
func (service *Service) Calendar(ctx context.Context, w calendar.Window, filter calendar.Filter) (calendar.Grid, model.DepartmentManagers, error) {
	managers, err := service.Managers(ctx)
	if err != nil {
		return calendar.Grid{}, nil, err
	}

	snap := calendar.NewSnapshot(w.WeekStart())
	if !w.Empty() {
		snap = service.loader.LoadWeek(ctx, w.WeekStart(), managers)
	}
	grid, err := calendar.Aggregate(w, managers, snap, filter)
	if err != nil {
		return calendar.Grid{}, nil, err
	}
	return grid, managers, nil
}

// DepartmentDay loads the teams of one department for the week containing date.
func (service *Service) DepartmentDay(ctx context.Context, department string, date time.Time) (*calendar.DepartmentDay, model.DepartmentManagers, error) {
	managers, err := service.Managers(ctx)
	if err != nil {
		return nil, nil, err
	}
	deptManagers, ok := managers[department]
	if !ok {
		return nil, managers, nil
	}

	only := model.DepartmentManagers{department: deptManagers}
	snap := service.loader.LoadWeek(ctx, calendar.WeekStart(date), only)
	day := calendar.NewDepartmentDay(department, calendar.FormatDate(date), deptManagers, snap)
	return &day, managers, nil
}

func (service *Service) PendingRequests(ctx context.Context, staffID string) ([]model.WFHRequest, error) {
	resp, err := service.client.GetPendingRequests(ctx, staffID)
	if err != nil {
		log.WithContext(ctx).WithError(err).WithField("staff_id", staffID).Error("Error fetching pending requests")
		return nil, err
	}
	return resp.Data, nil
}

// StaffSchedule groups the staff member's pending requests by the window's visible dates.
func (service *Service) StaffSchedule(ctx context.Context, staffID string, w calendar.Window) (map[string][]model.WFHRequest, []model.WFHRequest, error) {
	pending, err := service.PendingRequests(ctx, staffID)
	if err != nil {
		return nil, nil, err
	}
	byDate := make(map[string][]model.WFHRequest)
	for _, date := range w.DateStrings() {
		byDate[date] = nil
	}
	for _, r := range pending {
		if _, visible := byDate[r.SpecificDate]; visible {
			byDate[r.SpecificDate] = append(byDate[r.SpecificDate], r)
		}
	}
	return byDate, pending, nil
}

// LoadApproval starts an approval flow and fetches the request. The flow is returned even
// when loading fails, in StateError.
func (service *Service) LoadApproval(ctx context.Context, staffID string, requestID string) (*approval.Flow, error) {
	flow := approval.NewFlow(service.client, staffID, requestID)
	err := flow.Load(ctx)
	return flow, err
}

// SubmitDecision validates and posts the decision. shown holds the details the browser
// posted back, used only to redraw the form; the request is fetched again before the
// decision is sent. The backend calls are detached from the browser request so a closed
// tab does not abort a decision already sent.
func (service *Service) SubmitDecision(ctx context.Context, staffID string, requestID string, shown *model.RequestDetails, status string, notes string) *approval.Flow {
	flow := approval.NewFlow(service.client, staffID, requestID)
	if shown != nil {
		flow.Restore(shown)
	}

	submitCtx, cancel := customcontext.DetachWithTimeout(ctx, service.decisionTimeout)
	defer cancel()
	if err := flow.Decide(submitCtx, status, notes); err != nil {
		log.WithContext(ctx).WithError(err).WithFields(log.Fields{
			"request_id": requestID,
			"state":      flow.State.String(),
		}).Warn("decision not recorded")
	}
	return flow
}
