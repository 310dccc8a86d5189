package model

const (
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	StatusPending  = "Pending"
)

type WFHRequest struct {
	RequestID      string `json:"request_id"`
	StaffID        int    `json:"staff_id"`
	ManagerID      int    `json:"manager_id"`
	SpecificDate   string `json:"specific_date"`
	IsAM           bool   `json:"is_am"`
	IsPM           bool   `json:"is_pm"`
	RequestStatus  string `json:"request_status"`
	RequestReason  string `json:"request_reason"`
	ApplyDate      string `json:"apply_date"`
	DecisionStatus string `json:"decision_status,omitempty"`
	DecisionNotes  string `json:"decision_notes,omitempty"`
}

// DayType labels the half-day flags of a request.
func (r WFHRequest) DayType() string {
	return DayType(r.IsAM, r.IsPM)
}

type RequestDate struct {
	SpecificDate string `json:"specific_date"`
	IsAM         bool   `json:"is_am"`
	IsPM         bool   `json:"is_pm"`
}

func (d RequestDate) DayType() string {
	return DayType(d.IsAM, d.IsPM)
}

type RequestDetails struct {
	Data        WFHRequest    `json:"data"`
	IsRecurring bool          `json:"is_recurring"`
	AllDates    []RequestDate `json:"all_dates"`
}

type PendingRequests struct {
	Data []WFHRequest `json:"data"`
}

type Decision struct {
	RequestID      string `json:"request_id"`
	DecisionStatus string `json:"decision_status"`
	DecisionNotes  string `json:"decision_notes"`
	ManagerID      string `json:"manager_id"`
}

type Manager struct {
	StaffID  int `json:"staff_id"`
	TeamSize int `json:"teamSize"`
}

// DepartmentManagers maps a department name to its managers in backend order.
type DepartmentManagers map[string][]Manager

type ScheduleDetail struct {
	SpecificDate string `json:"specific_date"`
	IsAM         bool   `json:"is_am"`
	IsPM         bool   `json:"is_pm"`
}

type TeamMember struct {
	StaffID         int              `json:"staff_id"`
	FirstName       string           `json:"staff_fname"`
	LastName        string           `json:"staff_lname"`
	Dept            string           `json:"dept"`
	Position        string           `json:"position"`
	ScheduleDetails []ScheduleDetail `json:"ScheduleDetails"`
}

// DetailOn returns the member's schedule detail for date, if any.
func (m TeamMember) DetailOn(date string) (ScheduleDetail, bool) {
	for _, d := range m.ScheduleDetails {
		if d.SpecificDate == date {
			return d, true
		}
	}
	return ScheduleDetail{}, false
}

// TeamSchedule is the team_schedule response. A nil Team means the backend sent no team data.
type TeamSchedule struct {
	Team []TeamMember `json:"team"`
}

type AutoRejectResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func DayType(isAM, isPM bool) string {
	switch {
	case isAM && isPM:
		return "Full Day"
	case isAM:
		return "Half Day (AM)"
	case isPM:
		return "Half Day (PM)"
	default:
		return "No WFH"
	}
}
