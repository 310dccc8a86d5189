// Package report exports the attendance grid as a spreadsheet.
package report

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/syrilster/wfh-scheduler-web/internal/calendar"
)

const sheet = "Sheet1"

// AttendanceWorkbook lays the grid out with one row per department and one column per
// visible date. Unavailable cells are highlighted.
func AttendanceWorkbook(g calendar.Grid) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "H", 16); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	notReadyStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "#FF0000"}})
	if err != nil {
		return nil, err
	}

	if err := setCell(f, 1, 1, "Department", headerStyle); err != nil {
		return nil, err
	}
	for i, date := range g.Dates {
		if err := setCell(f, i+2, 1, date, headerStyle); err != nil {
			return nil, err
		}
	}

	for r, dept := range g.Departments {
		row := r + 2
		if err := setCell(f, 1, row, dept, 0); err != nil {
			return nil, err
		}
		for c, date := range g.Dates {
			cell, ok := g.Cell(dept, date)
			if !ok {
				continue
			}
			style := 0
			if !cell.Ready() {
				style = notReadyStyle
			}
			if err := setCell(f, c+2, row, cell.Label(), style); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// WriteAttendance streams the workbook for g as xlsx.
func WriteAttendance(w io.Writer, g calendar.Grid) error {
	f, err := AttendanceWorkbook(g)
	if err != nil {
		return err
	}
	return f.Write(w)
}

func setCell(f *excelize.File, col int, row int, value string, style int) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, name, value); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	return f.SetCellStyle(sheet, name, name, style)
}
