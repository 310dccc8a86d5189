package internal

import (
	"context"
	"net/http"
	"time"

	"github.com/syrilster/wfh-scheduler-web/internal/approval"
	"github.com/syrilster/wfh-scheduler-web/internal/calendar"
	"github.com/syrilster/wfh-scheduler-web/internal/config"
	"github.com/syrilster/wfh-scheduler-web/internal/model"
	"github.com/syrilster/wfh-scheduler-web/internal/web"
)

type SchedulerService interface {
	Today() time.Time
	Calendar(ctx context.Context, w calendar.Window, filter calendar.Filter) (calendar.Grid, model.DepartmentManagers, error)
	DepartmentDay(ctx context.Context, department string, date time.Time) (*calendar.DepartmentDay, model.DepartmentManagers, error)
	StaffSchedule(ctx context.Context, staffID string, w calendar.Window) (map[string][]model.WFHRequest, []model.WFHRequest, error)
	PendingRequests(ctx context.Context, staffID string) ([]model.WFHRequest, error)
	LoadApproval(ctx context.Context, staffID string, requestID string) (*approval.Flow, error)
	SubmitDecision(ctx context.Context, staffID string, requestID string, details *model.RequestDetails, status string, notes string) *approval.Flow
}

//PageRoutes are the browser-facing pages
func PageRoutes(service SchedulerService, renderer *web.Renderer) []config.Route {
	return []config.Route{
		{Path: "/", Method: http.MethodGet, Handler: HomeHandler(renderer)},
		{Path: "/assets/app.css", Method: http.MethodGet, Handler: renderer.CSSHandler()},
		{Path: schedulePath, Method: http.MethodGet, Handler: StaffScheduleHandler(service, renderer)},
		{Path: deptViewPath, Method: http.MethodGet, Handler: DeptViewHandler(service, renderer)},
		{Path: hrCalendarPath, Method: http.MethodGet, Handler: HRCalendarHandler(service, renderer)},
		{Path: hrCalendarPath + "/export", Method: http.MethodGet, Handler: ExportHandler(service)},
		{Path: "/{staffId}/approve/{requestId}", Method: http.MethodGet, Handler: ApprovalHandler(service, renderer)},
		{Path: "/{staffId}/approve/{requestId}", Method: http.MethodPost, Handler: DecisionHandler(service, renderer)},
		{Path: "/{staffId}/pending-requests", Method: http.MethodGet, Handler: PendingRequestsHandler(service, renderer)},
	}
}

//CalendarRoute serves the attendance grid as JSON
func CalendarRoute(service SchedulerService) config.Route {
	return config.Route{
		Path:    "/calendar",
		Method:  http.MethodGet,
		Handler: CalendarJSONHandler(service),
	}
}
