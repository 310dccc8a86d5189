package calendar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syrilster/wfh-scheduler-web/internal/model"
)

var managers = model.DepartmentManagers{
	"Sales":       {{StaffID: 140001, TeamSize: 4}},
	"Engineering": {{StaffID: 1, TeamSize: 5}},
	"HR":          {{StaffID: 2, TeamSize: 2}},
}

func TestFilterShowAll(t *testing.T) {
	f := NewFilter()
	require.True(t, f.ShowAll())
	require.Equal(t, []string{"Engineering", "HR", "Sales"}, f.Apply(managers))
}

func TestFilterNarrows(t *testing.T) {
	f := NewFilter("Sales", "Engineering", "Sales", "")
	require.False(t, f.ShowAll())
	require.Equal(t, []string{"Engineering", "Sales"}, f.Selected())
	require.Equal(t, []string{"Engineering", "Sales"}, f.Apply(managers))
	require.False(t, f.Includes("HR"))
}

func TestFilterToggle(t *testing.T) {
	f := NewFilter("Sales")
	require.Equal(t, []string{"HR", "Sales"}, f.Toggle("HR").Selected())
	require.True(t, f.Toggle("Sales").ShowAll())
	require.Equal(t, []string{"Sales"}, f.Selected(), "toggle must not mutate the receiver")
}

func TestFilterKnownDropsUnknownDepartments(t *testing.T) {
	require.True(t, NewFilter("Marketing").Known(managers).ShowAll())
	require.Equal(t, []string{"HR"}, NewFilter("Marketing", "HR").Known(managers).Selected())
}
