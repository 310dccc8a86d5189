package calendar

import (
	"sort"

	"github.com/syrilster/wfh-scheduler-web/internal/model"
)

// Filter is the department multi-select. No selection means show all.
type Filter struct {
	selected []string
}

func NewFilter(selected ...string) Filter {
	var f Filter
	seen := make(map[string]bool, len(selected))
	for _, d := range selected {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		f.selected = append(f.selected, d)
	}
	sort.Strings(f.selected)
	return f
}

func (f Filter) ShowAll() bool {
	return len(f.selected) == 0
}

func (f Filter) Selected() []string {
	return append([]string(nil), f.selected...)
}

func (f Filter) IsSelected(department string) bool {
	for _, d := range f.selected {
		if d == department {
			return true
		}
	}
	return false
}

// Includes reports whether department is rendered under this filter.
func (f Filter) Includes(department string) bool {
	return f.ShowAll() || f.IsSelected(department)
}

// Toggle returns the filter with department flipped.
func (f Filter) Toggle(department string) Filter {
	if f.IsSelected(department) {
		rest := make([]string, 0, len(f.selected))
		for _, d := range f.selected {
			if d != department {
				rest = append(rest, d)
			}
		}
		return NewFilter(rest...)
	}
	return NewFilter(append(f.Selected(), department)...)
}

// Known drops departments the managers list does not know about.
func (f Filter) Known(managers model.DepartmentManagers) Filter {
	known := make([]string, 0, len(f.selected))
	for _, d := range f.selected {
		if _, ok := managers[d]; ok {
			known = append(known, d)
		}
	}
	return NewFilter(known...)
}

// Apply returns the departments to render, in sorted order.
func (f Filter) Apply(managers model.DepartmentManagers) []string {
	var departments []string
	for _, d := range Departments(managers) {
		if f.Includes(d) {
			departments = append(departments, d)
		}
	}
	return departments
}

// Departments returns every department name, sorted.
func Departments(managers model.DepartmentManagers) []string {
	departments := make([]string, 0, len(managers))
	for d := range managers {
		departments = append(departments, d)
	}
	sort.Strings(departments)
	return departments
}
