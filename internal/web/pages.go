package web

import (
	"github.com/syrilster/wfh-scheduler-web/internal/calendar"
	"github.com/syrilster/wfh-scheduler-web/internal/model"
)

// Layout carries what the shared chrome needs.
type Layout struct {
	Title   string
	StaffID string
}

type HomePage struct {
	Layout
}

type ErrorPage struct {
	Layout
	Message string
}

type DepartmentOption struct {
	Name      string
	Label     string
	Selected  bool
	ToggleURL string
}

type CalendarCell struct {
	Cell  calendar.Cell
	Label string
	URL   string
}

type CalendarColumn struct {
	Date   string
	Header string
	Cells  []CalendarCell
}

type CalendarPage struct {
	Layout
	Anchor       string
	AnchorLabel  string
	Min          string
	Max          string
	Columns      []CalendarColumn
	Departments  []DepartmentOption
	Selected     []string
	ShowAll      bool
	ShowAllURL   string
	TodayURL     string
	PrevURL      string
	NextURL      string
	ExportURL    string
	CanGoBack    bool
	CanGoForward bool
	// Message is a validation problem with the requested date.
	Message string
	Error   string
}

type DeptViewPage struct {
	Layout
	Department  string
	Date        string
	DateLabel   string
	Departments []DepartmentOption
	Day         *calendar.DepartmentDay
	BackURL     string
	Message     string
	Error       string
}

type StaffDay struct {
	Date     string
	Label    string
	Requests []model.WFHRequest
}

type StaffSchedulePage struct {
	Layout
	WeekLabel    string
	Days         []StaffDay
	Pending      []model.WFHRequest
	PrevURL      string
	NextURL      string
	TodayURL     string
	CanGoBack    bool
	CanGoForward bool
	Message      string
	Error        string
}

type ApprovalPage struct {
	Layout
	RequestID       string
	ActionURL       string
	Details         *model.RequestDetails
	EncodedDetails  string
	Notes           string
	ValidationError string
	Error           string
	LoadError       string
}

type PendingPage struct {
	Layout
	Requests []model.WFHRequest
	Decided  string
	Error    string
}
