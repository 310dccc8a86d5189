package internal

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/syrilster/wfh-scheduler-web/internal/approval"
	"github.com/syrilster/wfh-scheduler-web/internal/calendar"
	"github.com/syrilster/wfh-scheduler-web/internal/model"
	"github.com/syrilster/wfh-scheduler-web/internal/report"
	"github.com/syrilster/wfh-scheduler-web/internal/util"
	"github.com/syrilster/wfh-scheduler-web/internal/web"
	"github.com/syrilster/wfh-scheduler-web/internal/wfh"
)

const (
	hrCalendarPath = "/hr/hr-calendar"
	deptViewPath   = "/hr/dept-view"
	schedulePath   = "/staff/view-schedule"

	managersFailedMessage = "Failed to fetch department managers"
	pendingFailedMessage  = "Failed to fetch pending requests"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

//HomeHandler renders the landing page
func HomeHandler(renderer *web.Renderer) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		renderer.RenderHTTP(res, req, http.StatusOK, web.PageHome, web.HomePage{Layout: web.Layout{Title: "Home"}})
	}
}

//HRCalendarHandler renders the attendance calendar for the anchor week
func HRCalendarHandler(service SchedulerService, renderer *web.Renderer) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		q := parseCalendarQuery(req, service.Today())
		w := q.window

		page := web.CalendarPage{
			Layout:       web.Layout{Title: "HR Calendar"},
			Anchor:       calendar.FormatDate(w.Anchor),
			AnchorLabel:  w.Anchor.Format("January 2006"),
			Min:          calendar.FormatDate(w.Range.Min),
			Max:          calendar.FormatDate(w.Range.Max),
			CanGoBack:    w.CanGoBack(),
			CanGoForward: w.CanGoForward(),
			Message:      q.message,
		}

		grid, managers, err := service.Calendar(ctx, w, q.filter)
		if err != nil {
			log.WithContext(ctx).WithError(err).Error("Failed to load the attendance calendar")
			page.Error = wfh.MessageOr(err, managersFailedMessage)
			renderer.RenderHTTP(res, req, errorStatus(err), web.PageHRCalendar, page)
			return
		}

		filter := q.filter.Known(managers)
		page.Selected = filter.Selected()
		page.ShowAll = filter.ShowAll()
		page.ShowAllURL = calendarURL(hrCalendarPath, &w.Anchor, calendar.NewFilter())
		page.TodayURL = calendarURL(hrCalendarPath, nil, filter)
		prev, next := w.Prev(), w.Next()
		page.PrevURL = calendarURL(hrCalendarPath, &prev, filter)
		page.NextURL = calendarURL(hrCalendarPath, &next, filter)
		page.ExportURL = calendarURL(hrCalendarPath+"/export", &w.Anchor, filter)

		for _, dept := range calendar.Departments(managers) {
			page.Departments = append(page.Departments, web.DepartmentOption{
				Name:      dept,
				Label:     departmentLabel(dept),
				Selected:  filter.IsSelected(dept),
				ToggleURL: calendarURL(hrCalendarPath, &w.Anchor, filter.Toggle(dept)),
			})
		}
		for i, col := range grid.Columns {
			column := web.CalendarColumn{Date: col.Date, Header: w.Dates[i].Format("Mon, Jan 2")}
			for _, cell := range col.Cells {
				column.Cells = append(column.Cells, web.CalendarCell{
					Cell:  cell,
					Label: departmentLabel(cell.Department),
					URL:   deptViewURL(cell.Department, cell.Date),
				})
			}
			page.Columns = append(page.Columns, column)
		}
		renderer.RenderHTTP(res, req, http.StatusOK, web.PageHRCalendar, page)
	}
}

type calendarResponse struct {
	Anchor       string        `json:"anchor"`
	Min          string        `json:"min"`
	Max          string        `json:"max"`
	CanGoBack    bool          `json:"can_go_back"`
	CanGoForward bool          `json:"can_go_forward"`
	Message      string        `json:"message,omitempty"`
	Grid         calendar.Grid `json:"grid"`
}

//CalendarJSONHandler returns the attendance grid as JSON
func CalendarJSONHandler(service SchedulerService) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		q := parseCalendarQuery(req, service.Today())

		grid, _, err := service.Calendar(ctx, q.window, q.filter)
		if err != nil {
			log.WithContext(ctx).WithError(err).Error("Failed to load the attendance calendar")
			util.WithError(wfh.MessageOr(err, managersFailedMessage), errorStatus(err), res)
			return
		}
		util.WithBodyAndStatus(calendarResponse{
			Anchor:       calendar.FormatDate(q.window.Anchor),
			Min:          calendar.FormatDate(q.window.Range.Min),
			Max:          calendar.FormatDate(q.window.Range.Max),
			CanGoBack:    q.window.CanGoBack(),
			CanGoForward: q.window.CanGoForward(),
			Message:      q.message,
			Grid:         grid,
		}, http.StatusOK, res)
	}
}

//ExportHandler downloads the visible attendance grid as an xlsx workbook
func ExportHandler(service SchedulerService) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		contextLogger := log.WithContext(ctx)
		q := parseCalendarQuery(req, service.Today())

		grid, _, err := service.Calendar(ctx, q.window, q.filter)
		if err != nil {
			contextLogger.WithError(err).Error("Failed to load the attendance calendar for export")
			util.WithError(wfh.MessageOr(err, managersFailedMessage), errorStatus(err), res)
			return
		}

		var buf bytes.Buffer
		if err := report.WriteAttendance(&buf, grid); err != nil {
			contextLogger.WithError(err).Error("Failed to write the attendance workbook")
			util.WithError("Failed to export the attendance calendar", http.StatusInternalServerError, res)
			return
		}
		res.Header().Set("Content-Type", xlsxContentType)
		res.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"attendance-%s.xlsx\"", grid.WeekStart))
		res.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(res)
	}
}

//DeptViewHandler renders one department's teams for one date
func DeptViewHandler(service SchedulerService, renderer *web.Renderer) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		today := service.Today()
		department := req.URL.Query().Get("department")

		date, err := resolveDate(req.URL.Query().Get("date"), today)
		page := web.DeptViewPage{
			Layout:     web.Layout{Title: "Department View"},
			Department: department,
			Date:       calendar.FormatDate(date),
			DateLabel:  date.Format("Mon, 2 Jan 2006"),
			BackURL:    calendarURL(hrCalendarPath, &date, calendar.NewFilter()),
		}
		if err != nil {
			page.Message = anchorMessage(err)
		}

		day, managers, err := service.DepartmentDay(ctx, department, date)
		if err != nil {
			log.WithContext(ctx).WithError(err).WithField("department", department).Error("Failed to load the department view")
			page.Error = wfh.MessageOr(err, managersFailedMessage)
			renderer.RenderHTTP(res, req, errorStatus(err), web.PageDeptView, page)
			return
		}
		for _, dept := range calendar.Departments(managers) {
			page.Departments = append(page.Departments, web.DepartmentOption{
				Name:     dept,
				Label:    departmentLabel(dept),
				Selected: dept == department,
			})
		}
		if department != "" && day == nil {
			page.Message = fmt.Sprintf("Unknown department %q", department)
		}
		page.Day = day
		renderer.RenderHTTP(res, req, http.StatusOK, web.PageDeptView, page)
	}
}

//StaffScheduleHandler renders a staff member's pending requests over the anchor week
func StaffScheduleHandler(service SchedulerService, renderer *web.Renderer) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		staffID := strings.TrimSpace(req.URL.Query().Get("staff_id"))
		q := parseCalendarQuery(req, service.Today())
		w := q.window

		page := web.StaffSchedulePage{
			Layout:       web.Layout{Title: "My Schedule", StaffID: staffID},
			WeekLabel:    fmt.Sprintf("%s - %s", w.WeekStart().Format("Jan 2"), w.WeekEnd().Format("Jan 2, 2006")),
			CanGoBack:    w.CanGoBack(),
			CanGoForward: w.CanGoForward(),
			Message:      q.message,
		}
		if staffID == "" {
			renderer.RenderHTTP(res, req, http.StatusOK, web.PageStaffSchedule, page)
			return
		}
		prev, next := w.Prev(), w.Next()
		page.PrevURL = scheduleURL(staffID, &prev)
		page.NextURL = scheduleURL(staffID, &next)
		page.TodayURL = scheduleURL(staffID, nil)

		byDate, pending, err := service.StaffSchedule(ctx, staffID, w)
		if err != nil {
			page.Error = wfh.MessageOr(err, pendingFailedMessage)
			renderer.RenderHTTP(res, req, errorStatus(err), web.PageStaffSchedule, page)
			return
		}
		for _, d := range w.Dates {
			date := calendar.FormatDate(d)
			page.Days = append(page.Days, web.StaffDay{
				Date:     date,
				Label:    d.Format("Mon, Jan 2"),
				Requests: byDate[date],
			})
		}
		page.Pending = pending
		renderer.RenderHTTP(res, req, http.StatusOK, web.PageStaffSchedule, page)
	}
}

//ApprovalHandler renders the approval screen for one request
func ApprovalHandler(service SchedulerService, renderer *web.Renderer) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		vars := mux.Vars(req)
		staffID, requestID := vars["staffId"], vars["requestId"]

		flow, err := service.LoadApproval(req.Context(), staffID, requestID)
		status := http.StatusOK
		if err != nil {
			status = errorStatus(err)
		}
		renderer.RenderHTTP(res, req, status, web.PageApproval, approvalPage(flow))
	}
}

//DecisionHandler submits the manager's decision and redirects to the pending requests page
func DecisionHandler(service SchedulerService, renderer *web.Renderer) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		vars := mux.Vars(req)
		staffID, requestID := vars["staffId"], vars["requestId"]

		if err := req.ParseForm(); err != nil {
			log.WithContext(ctx).WithError(err).Error("Failed to parse the decision form")
			renderer.RenderHTTP(res, req, http.StatusBadRequest, web.PageError, web.ErrorPage{
				Layout:  web.Layout{Title: "Approve Request", StaffID: staffID},
				Message: "Invalid decision form",
			})
			return
		}

		shown, err := approval.DecodeDetails(req.PostFormValue("details"))
		if err != nil {
			log.WithContext(ctx).WithError(err).Debug("decision form carried no request details to redraw")
			shown = nil
		}

		flow := service.SubmitDecision(ctx, staffID, requestID, shown, req.PostFormValue("decision_status"), req.PostFormValue("decision_notes"))
		switch {
		case flow.State == approval.StateDecided:
			http.Redirect(res, req, pendingURL(staffID, flow.Decided), http.StatusSeeOther)
		case flow.ValidationError != "":
			renderer.RenderHTTP(res, req, http.StatusUnprocessableEntity, web.PageApproval, approvalPage(flow))
		default:
			renderer.RenderHTTP(res, req, http.StatusBadGateway, web.PageApproval, approvalPage(flow))
		}
	}
}

//PendingRequestsHandler renders a staff member's pending requests
func PendingRequestsHandler(service SchedulerService, renderer *web.Renderer) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		staffID := mux.Vars(req)["staffId"]
		page := web.PendingPage{Layout: web.Layout{Title: "Pending Requests", StaffID: staffID}}
		if decided := req.URL.Query().Get("decided"); decided == model.StatusApproved || decided == model.StatusRejected {
			page.Decided = decided
		}

		requests, err := service.PendingRequests(req.Context(), staffID)
		if err != nil {
			page.Error = wfh.MessageOr(err, pendingFailedMessage)
			renderer.RenderHTTP(res, req, errorStatus(err), web.PagePending, page)
			return
		}
		page.Requests = requests
		renderer.RenderHTTP(res, req, http.StatusOK, web.PagePending, page)
	}
}

type calendarQuery struct {
	window  calendar.Window
	filter  calendar.Filter
	message string
}

func parseCalendarQuery(req *http.Request, today time.Time) calendarQuery {
	values := req.URL.Query()
	anchor, err := calendar.ResolveAnchor(values.Get("date"), today)
	q := calendarQuery{
		window: calendar.NewWindow(anchor, today),
		filter: calendar.NewFilter(values["dept"]...),
	}
	if err != nil {
		q.message = anchorMessage(err)
	}
	return q
}

// resolveDate parses a single day, which must lie inside the allowed range.
func resolveDate(raw string, today time.Time) (time.Time, error) {
	today = calendar.DateOf(today)
	if raw == "" {
		return today, nil
	}
	date, err := calendar.ParseDate(raw)
	if err != nil {
		return today, err
	}
	if !calendar.AllowedRange(today).Contains(date) {
		return today, calendar.ErrOutOfRange
	}
	return date, nil
}

func anchorMessage(err error) string {
	switch {
	case errors.Is(err, calendar.ErrOutOfRange):
		return "The selected date is outside the allowed range. Showing today instead."
	default:
		return "The selected date is not a valid date. Showing today instead."
	}
}

func approvalPage(flow *approval.Flow) web.ApprovalPage {
	page := web.ApprovalPage{
		Layout:          web.Layout{Title: "Approve Request", StaffID: flow.StaffID},
		RequestID:       flow.RequestID,
		ActionURL:       fmt.Sprintf("/%s/approve/%s", url.PathEscape(flow.StaffID), url.PathEscape(flow.RequestID)),
		Details:         flow.Details,
		Notes:           flow.Notes,
		ValidationError: flow.ValidationError,
	}
	if flow.State == approval.StateError {
		page.LoadError = flow.Error
		return page
	}
	page.Error = flow.Error
	if flow.Details == nil {
		return page
	}
	encoded, err := approval.EncodeDetails(flow.Details)
	if err != nil {
		log.WithError(err).WithField("request_id", flow.RequestID).Error("Failed to encode request details")
	}
	page.EncodedDetails = encoded
	return page
}

// errorStatus maps a backend failure onto the status of the page that reports it.
func errorStatus(err error) int {
	var apiErr *wfh.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func calendarURL(path string, date *time.Time, filter calendar.Filter) string {
	q := url.Values{}
	if date != nil {
		q.Set("date", calendar.FormatDate(*date))
	}
	for _, dept := range filter.Selected() {
		q.Add("dept", dept)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func deptViewURL(department string, date string) string {
	q := url.Values{}
	q.Set("department", department)
	q.Set("date", date)
	return deptViewPath + "?" + q.Encode()
}

func scheduleURL(staffID string, date *time.Time) string {
	q := url.Values{}
	q.Set("staff_id", staffID)
	if date != nil {
		q.Set("date", calendar.FormatDate(*date))
	}
	return schedulePath + "?" + q.Encode()
}

func pendingURL(staffID string, decided string) string {
	return fmt.Sprintf("/%s/pending-requests?decided=%s", url.PathEscape(staffID), url.QueryEscape(decided))
}

// departmentLabel capitalises a department name for display.
func departmentLabel(department string) string {
	if department == "" {
		return department
	}
	return strings.ToUpper(department[:1]) + department[1:]
}
