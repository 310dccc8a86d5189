package calendar

import (
	"fmt"
	"strings"

	"github.com/syrilster/wfh-scheduler-web/internal/model"
)

const inOfficeLabel = "In Office"

type MemberDay struct {
	StaffID  int
	Name     string
	Position string
	Status   string
	InOffice bool
}

type ManagerDay struct {
	ManagerID int
	TeamSize  int
	Members   []MemberDay
	Error     string
}

// DepartmentDay is the drill-down behind one calendar cell.
type DepartmentDay struct {
	Department string
	Date       string
	Managers   []ManagerDay
	Cell       Cell
}

func NewDepartmentDay(department string, date string, managers []model.Manager, snap Snapshot) DepartmentDay {
	day := DepartmentDay{
		Department: department,
		Date:       date,
		Cell:       AttendanceCell(department, date, managers, snap),
	}
	for _, m := range managers {
		md := ManagerDay{ManagerID: m.StaffID, TeamSize: m.TeamSize}
		if err, failed := snap.Failures[m.StaffID]; failed {
			md.Error = fmt.Sprintf("Team schedule unavailable: %v", err)
			day.Managers = append(day.Managers, md)
			continue
		}
		if snap.HasTeam(m.StaffID) {
			for _, member := range snap.Teams[m.StaffID].Team {
				md.Members = append(md.Members, memberDay(member, date))
			}
		}
		day.Managers = append(day.Managers, md)
	}
	return day
}

func memberDay(member model.TeamMember, date string) MemberDay {
	md := MemberDay{
		StaffID:  member.StaffID,
		Name:     strings.TrimSpace(member.FirstName + " " + member.LastName),
		Position: member.Position,
		Status:   inOfficeLabel,
		InOffice: true,
	}
	if detail, ok := member.DetailOn(date); ok {
		md.Status = model.DayType(detail.IsAM, detail.IsPM)
		md.InOffice = false
	}
	return md
}
