package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/syrilster/wfh-scheduler-web/internal/approval"
	"github.com/syrilster/wfh-scheduler-web/internal/model"
	"github.com/syrilster/wfh-scheduler-web/internal/reqid"
	"github.com/syrilster/wfh-scheduler-web/internal/wfh"
)

type testConfig struct {
	client   wfh.ClientInterface
	schedule string
}

func (c testConfig) Version() string                    { return "v1" }
func (c testConfig) BackendClient() wfh.ClientInterface { return c.client }
func (c testConfig) TeamFetchConcurrency() int          { return 2 }
func (c testConfig) DecisionTimeout() time.Duration     { return time.Second }
func (c testConfig) Location() *time.Location           { return singapore }
func (c testConfig) Today() time.Time                   { return now }
func (c testConfig) AutoRejectSchedule() string         { return c.schedule }
func (c testConfig) CORSAllowedOrigins() []string       { return []string{"*"} }

func serve(t *testing.T, client *MockWFHClient, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	server, err := SetupServer(testConfig{client: client})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func engineeringBackend() *MockWFHClient {
	client := new(MockWFHClient)
	client.On("GetManagers", mock.Anything).Return(engineering, nil)
	client.On("GetTeamSchedule", mock.Anything, 1, "2026-10-11", "2026-10-17").Return(engineeringTeam, nil)
	return client
}

func TestHealthRoute(t *testing.T) {
	rec := serve(t, new(MockWFHClient), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"All OK","version":"v1"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(reqid.Header))
}

func TestHomeRoute(t *testing.T) {
	rec := serve(t, new(MockWFHClient), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Work From Home Scheduler")
}

func TestAssetsRoute(t *testing.T) {
	rec := serve(t, new(MockWFHClient), httptest.NewRequest(http.MethodGet, "/assets/app.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestHRCalendarPage(t *testing.T) {
	rec := serve(t, engineeringBackend(), httptest.NewRequest(http.MethodGet, "/hr/hr-calendar", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Engineering: 4 / 5")
	assert.Contains(t, body, "Engineering: 5 / 5")
	assert.Contains(t, body, "Thu, Oct 15")
	assert.NotContains(t, body, "Wed, Oct 14")
	assert.Contains(t, body, `href="/hr/hr-calendar?date=2026-10-22"`)
	assert.Contains(t, body, `href="/hr/dept-view?date=2026-10-15&amp;department=Engineering"`)
}

func TestHRCalendarInvalidDateFallsBackToToday(t *testing.T) {
	rec := serve(t, engineeringBackend(), httptest.NewRequest(http.MethodGet, "/hr/hr-calendar?date=2026-13-45", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a valid date")
	assert.Contains(t, rec.Body.String(), "Engineering: 4 / 5")
}

func TestHRCalendarManagersFailure(t *testing.T) {
	client := new(MockWFHClient)
	client.On("GetManagers", mock.Anything).Return(nil, &wfh.APIError{StatusCode: http.StatusInternalServerError, Message: "database unavailable"})

	rec := serve(t, client, httptest.NewRequest(http.MethodGet, "/hr/hr-calendar", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "Error: database unavailable")
}

func TestCalendarJSON(t *testing.T) {
	rec := serve(t, engineeringBackend(), httptest.NewRequest(http.MethodGet, "/v1/calendar?dept=Engineering&dept=Unknown", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Anchor       string `json:"anchor"`
		Min          string `json:"min"`
		Max          string `json:"max"`
		CanGoBack    bool   `json:"can_go_back"`
		CanGoForward bool   `json:"can_go_forward"`
		Grid         struct {
			Dates       []string `json:"dates"`
			Departments []string `json:"departments"`
			Columns     []struct {
				Date  string `json:"date"`
				Cells []struct {
					Status   string `json:"status"`
					InOffice int    `json:"in_office"`
					Total    int    `json:"total"`
				} `json:"cells"`
			} `json:"columns"`
		} `json:"grid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-10-15", resp.Anchor)
	assert.Equal(t, "2026-08-15", resp.Min)
	assert.Equal(t, "2027-01-15", resp.Max)
	assert.True(t, resp.CanGoBack)
	assert.True(t, resp.CanGoForward)
	assert.Equal(t, []string{"Engineering"}, resp.Grid.Departments)
	require.Len(t, resp.Grid.Columns, 3)
	first := resp.Grid.Columns[0].Cells[0]
	assert.Equal(t, "ready", first.Status)
	assert.Equal(t, 4, first.InOffice)
	assert.Equal(t, 5, first.Total)
}

func TestCalendarJSONManagersFailure(t *testing.T) {
	client := new(MockWFHClient)
	client.On("GetManagers", mock.Anything).Return(nil, &wfh.APIError{StatusCode: http.StatusInternalServerError})

	rec := serve(t, client, httptest.NewRequest(http.MethodGet, "/v1/calendar", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.JSONEq(t, `{"error":"Failed to fetch department managers"}`, rec.Body.String())
}

func TestExport(t *testing.T) {
	rec := serve(t, engineeringBackend(), httptest.NewRequest(http.MethodGet, "/hr/hr-calendar/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attendance-2026-10-11.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	v, err := f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	require.Equal(t, "4 / 5", v)
}

func TestDeptView(t *testing.T) {
	rec := serve(t, engineeringBackend(), httptest.NewRequest(http.MethodGet, "/hr/dept-view?department=Engineering&date=2026-10-15", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "In office: 4 / 5")
	assert.Contains(t, body, "Susan Goh")
	assert.Contains(t, body, "Full Day")
}

func TestDeptViewUnknownDepartment(t *testing.T) {
	rec := serve(t, engineeringBackend(), httptest.NewRequest(http.MethodGet, "/hr/dept-view?department=Legal", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown department")
}

func TestStaffSchedulePage(t *testing.T) {
	client := new(MockWFHClient)
	client.On("GetPendingRequests", mock.Anything, "140002").Return(&model.PendingRequests{Data: []model.WFHRequest{
		{RequestID: "REQ7", SpecificDate: "2026-10-16", IsAM: true, RequestStatus: model.StatusPending, RequestReason: "dentist"},
	}}, nil)

	rec := serve(t, client, httptest.NewRequest(http.MethodGet, "/staff/view-schedule?staff_id=140002", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "REQ7: Half Day (AM) (Pending)")
	assert.Contains(t, body, "Oct 11 - Oct 17, 2026")
	assert.Contains(t, body, "2026-10-16 - Half Day (AM) (dentist)")
}

func TestStaffSchedulePageWithoutStaffID(t *testing.T) {
	client := new(MockWFHClient)
	rec := serve(t, client, httptest.NewRequest(http.MethodGet, "/staff/view-schedule", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	client.AssertNotCalled(t, "GetPendingRequests", mock.Anything, mock.Anything)
}

func TestApprovalPage(t *testing.T) {
	client := new(MockWFHClient)
	client.On("GetRequest", mock.Anything, "REC123").Return(&model.RequestDetails{
		Data:        model.WFHRequest{RequestID: "REC123", StaffID: 140008},
		IsRecurring: true,
		AllDates:    []model.RequestDate{{SpecificDate: "2026-11-02", IsAM: true, IsPM: true}},
	}, nil)

	rec := serve(t, client, httptest.NewRequest(http.MethodGet, "/140001/approve/REC123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Approval Screen for Request ID: REC123")
	assert.Contains(t, body, "2026-11-02 - Full Day")
	assert.Contains(t, body, `action="/140001/approve/REC123"`)
	assert.Contains(t, body, `name="details"`)
}

func TestApprovalPageLoadFailure(t *testing.T) {
	client := new(MockWFHClient)
	client.On("GetRequest", mock.Anything, "NOPE").Return(nil, &wfh.APIError{StatusCode: http.StatusNotFound, Message: "Request not found"})

	rec := serve(t, client, httptest.NewRequest(http.MethodGet, "/140001/approve/NOPE", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Error: Request not found")
}

func decisionRequest(t *testing.T, path string, details *model.RequestDetails, status string, notes string) *http.Request {
	t.Helper()
	form := url.Values{}
	if details != nil {
		encoded, err := approval.EncodeDetails(details)
		require.NoError(t, err)
		form.Set("details", encoded)
	}
	form.Set("decision_status", status)
	form.Set("decision_notes", notes)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDecisionRedirectsToPendingRequests(t *testing.T) {
	details := &model.RequestDetails{Data: model.WFHRequest{RequestID: "REC123"}, IsRecurring: true}
	client := new(MockWFHClient)
	client.On("GetRequest", mock.Anything, "REC123").Return(details, nil).Once()
	client.On("SubmitDecision", mock.Anything, true, model.Decision{
		RequestID: "REC123", DecisionStatus: model.StatusApproved, DecisionNotes: "enjoy", ManagerID: "140001",
	}).Return(nil).Once()

	rec := serve(t, client, decisionRequest(t, "/140001/approve/REC123", details, model.StatusApproved, "enjoy"))

	client.AssertExpectations(t)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/140001/pending-requests?decided=Approved", rec.Header().Get("Location"))
}

func TestDecisionIgnoresPostedRecurrence(t *testing.T) {
	single := &model.RequestDetails{Data: model.WFHRequest{RequestID: "SINGLE456", StaffID: 140008}}
	tampered := &model.RequestDetails{Data: single.Data, IsRecurring: true}
	client := new(MockWFHClient)
	client.On("GetRequest", mock.Anything, "SINGLE456").Return(single, nil).Once()
	client.On("SubmitDecision", mock.Anything, false, mock.Anything).Return(nil).Once()

	rec := serve(t, client, decisionRequest(t, "/140001/approve/SINGLE456", tampered, model.StatusApproved, "fine"))

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "SubmitDecision", mock.Anything, true, mock.Anything)
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestDecisionBlankNotesMakesNoCall(t *testing.T) {
	details := &model.RequestDetails{Data: model.WFHRequest{RequestID: "REQ1", StaffID: 140008}}
	client := new(MockWFHClient)

	rec := serve(t, client, decisionRequest(t, "/140001/approve/REQ1", details, model.StatusRejected, "   "))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please provide a reason for your decision")
	assert.Contains(t, body, "Staff ID: 140008")
	client.AssertNotCalled(t, "GetRequest", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "SubmitDecision", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecisionBlankNotesWithoutDetails(t *testing.T) {
	client := new(MockWFHClient)

	rec := serve(t, client, decisionRequest(t, "/140001/approve/REQ1", nil, model.StatusRejected, ""))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please provide a reason for your decision")
	assert.NotContains(t, body, "Staff ID:")
	client.AssertNotCalled(t, "GetRequest", mock.Anything, mock.Anything)
}

func TestDecisionBackendFailureKeepsTheForm(t *testing.T) {
	details := &model.RequestDetails{Data: model.WFHRequest{RequestID: "REQ1"}}
	client := new(MockWFHClient)
	client.On("GetRequest", mock.Anything, "REQ1").Return(details, nil)
	client.On("SubmitDecision", mock.Anything, false, mock.Anything).Return(&wfh.APIError{StatusCode: http.StatusInternalServerError})

	rec := serve(t, client, decisionRequest(t, "/140001/approve/REQ1", details, model.StatusApproved, "fine by me"))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Failed to process the decision")
	assert.Contains(t, body, "fine by me")
	assert.Contains(t, body, `name="details"`)
}

func TestDecisionWithoutDetailsFetchesTheRequest(t *testing.T) {
	details := &model.RequestDetails{Data: model.WFHRequest{RequestID: "REQ1"}}
	client := new(MockWFHClient)
	client.On("GetRequest", mock.Anything, "REQ1").Return(details, nil).Once()
	client.On("SubmitDecision", mock.Anything, false, mock.Anything).Return(nil).Once()

	rec := serve(t, client, decisionRequest(t, "/140001/approve/REQ1", nil, model.StatusRejected, "no cover"))

	client.AssertExpectations(t)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/140001/pending-requests?decided=Rejected", rec.Header().Get("Location"))
}

func TestDecisionRequestGone(t *testing.T) {
	client := new(MockWFHClient)
	client.On("GetRequest", mock.Anything, "REQ1").Return(nil, &wfh.APIError{StatusCode: http.StatusNotFound, Message: "Request not found"})

	rec := serve(t, client, decisionRequest(t, "/140001/approve/REQ1", nil, model.StatusApproved, "ok"))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "Error: Request not found")
	client.AssertNotCalled(t, "SubmitDecision", mock.Anything, mock.Anything, mock.Anything)
}

func TestPendingRequestsPage(t *testing.T) {
	client := new(MockWFHClient)
	client.On("GetPendingRequests", mock.Anything, "140001").Return(&model.PendingRequests{Data: []model.WFHRequest{
		{RequestID: "REQ9", StaffID: 140001, SpecificDate: "2026-10-20", IsPM: true, RequestReason: "delivery"},
	}}, nil)

	rec := serve(t, client, httptest.NewRequest(http.MethodGet, "/140001/pending-requests?decided=Approved", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Decision successfully made: Approved")
	assert.Contains(t, body, "REQ9")
	assert.Contains(t, body, "Half Day (PM)")
}

func TestPendingRequestsIgnoresUnknownDecision(t *testing.T) {
	client := new(MockWFHClient)
	client.On("GetPendingRequests", mock.Anything, "140001").Return(&model.PendingRequests{}, nil)

	rec := serve(t, client, httptest.NewRequest(http.MethodGet, "/140001/pending-requests?decided=Maybe", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Decision successfully made")
}

func TestSetupServerRejectsBadSchedule(t *testing.T) {
	_, err := SetupServer(testConfig{client: new(MockWFHClient), schedule: "every tuesday"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "AUTO_REJECT_SCHEDULE")
}
