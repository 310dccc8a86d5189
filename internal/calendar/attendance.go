package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/syrilster/wfh-scheduler-web/internal/model"
)

var ErrStaleSnapshot = errors.New("schedule snapshot belongs to a different week")

// Snapshot holds one week of team schedules, keyed by manager staff id. A manager is in
// exactly one of Teams or Failures once loading finished.
type Snapshot struct {
	WeekStart time.Time
	Teams     map[int]*model.TeamSchedule
	Failures  map[int]error
}

func NewSnapshot(weekStart time.Time) Snapshot {
	return Snapshot{
		WeekStart: DateOf(weekStart),
		Teams:     make(map[int]*model.TeamSchedule),
		Failures:  make(map[int]error),
	}
}

// HasTeam reports whether the manager's team data arrived.
func (s Snapshot) HasTeam(managerID int) bool {
	team, ok := s.Teams[managerID]
	return ok && team != nil && team.Team != nil
}

type CellStatus int

const (
	// CellPending means some manager returned no team data yet.
	CellPending CellStatus = iota
	CellReady
	// CellUnavailable means at least one of the department's manager fetches failed.
	CellUnavailable
)

func (s CellStatus) String() string {
	switch s {
	case CellReady:
		return "ready"
	case CellUnavailable:
		return "unavailable"
	default:
		return "pending"
	}
}

func (s CellStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Cell struct {
	Department string     `json:"department"`
	Date       string     `json:"date"`
	Status     CellStatus `json:"status"`
	InOffice   int        `json:"in_office"`
	Total      int        `json:"total"`
	Reasons    []string   `json:"reasons,omitempty"`
}

func (c Cell) Ready() bool {
	return c.Status == CellReady
}

// Label is the text shown in the calendar, e.g. "4 / 5".
func (c Cell) Label() string {
	switch c.Status {
	case CellReady:
		return fmt.Sprintf("%d / %d", c.InOffice, c.Total)
	case CellUnavailable:
		return "unavailable"
	default:
		return "loading"
	}
}

type Column struct {
	Date  string `json:"date"`
	Cells []Cell `json:"cells"`
}

type Grid struct {
	WeekStart   string   `json:"week_start"`
	Dates       []string `json:"dates"`
	Departments []string `json:"departments"`
	Columns     []Column `json:"columns"`
}

func (g Grid) Cell(department string, date string) (Cell, bool) {
	for _, col := range g.Columns {
		if col.Date != date {
			continue
		}
		for _, c := range col.Cells {
			if c.Department == department {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// Aggregate builds the attendance grid for the window's visible dates and the departments
// the filter keeps. The snapshot must belong to the window's week.
func Aggregate(w Window, managers model.DepartmentManagers, snap Snapshot, filter Filter) (Grid, error) {
	if !snap.WeekStart.Equal(w.WeekStart()) {
		return Grid{}, ErrStaleSnapshot
	}

	g := Grid{
		WeekStart:   FormatDate(w.WeekStart()),
		Dates:       w.DateStrings(),
		Departments: filter.Known(managers).Apply(managers),
	}
	for _, date := range g.Dates {
		col := Column{Date: date}
		for _, dept := range g.Departments {
			col.Cells = append(col.Cells, AttendanceCell(dept, date, managers[dept], snap))
		}
		g.Columns = append(g.Columns, col)
	}
	return g, nil
}

// AttendanceCell counts the department's members in office on date. The denominator is the
// sum of the managers' declared team sizes, not the number of members returned.
func AttendanceCell(department string, date string, managers []model.Manager, snap Snapshot) Cell {
	c := Cell{Department: department, Date: date}

	var reasons []string
	for _, m := range managers {
		if err, failed := snap.Failures[m.StaffID]; failed {
			reasons = append(reasons, fmt.Sprintf("manager %d: %v", m.StaffID, err))
		}
	}
	if len(reasons) > 0 {
		sort.Strings(reasons)
		c.Status = CellUnavailable
		c.Reasons = reasons
		return c
	}

	for _, m := range managers {
		if !snap.HasTeam(m.StaffID) {
			c.Status = CellPending
			return c
		}
	}

	for _, m := range managers {
		c.Total += m.TeamSize
		for _, member := range snap.Teams[m.StaffID].Team {
			if InOffice(member, date) {
				c.InOffice++
			}
		}
	}
	c.Status = CellReady
	return c
}

// InOffice is true when the member has no schedule detail on date.
func InOffice(member model.TeamMember, date string) bool {
	_, wfh := member.DetailOn(date)
	return !wfh
}
