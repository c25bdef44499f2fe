// Package export writes a habit week as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	gokitlog "github.com/go-kit/log"
	"github.com/xuri/excelize/v2"

	"github.com/teamdino/studykit/internal/logging"
)

const (
	// SheetName is the worksheet holding the grid.
	SheetName = "Habit Tracker"
	// FileName is the default workbook name.
	FileName = "habit-tracker.xlsx"

	days = 7
)

var dayHeaders = [days]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Layout gives the 1-based rows of the summary lines for n habits.
type Layout struct {
	LastDataRow int
	PctRow      int
	AvgRow      int
}

// LayoutFor returns the row layout for n habits: header, data, spacer, Daily %, Weekly Avg.
func LayoutFor(n int) Layout {
	last := n + 1
	return Layout{LastDataRow: last, PctRow: last + 2, AvgRow: last + 3}
}

// Build creates the workbook for habit names and their checks.
// grid[h][d] is habit h on day d, Monday first; missing cells are unchecked.
func Build(logger gokitlog.Logger, names []string, grid [][]bool) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, closeOnErr(logger, f, err)
	}
	if err := fill(f, names, grid); err != nil {
		return nil, closeOnErr(logger, f, err)
	}
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(logger gokitlog.Logger, w io.Writer, names []string, grid [][]bool) error {
	f, err := Build(logger, names, grid)
	if err != nil {
		return err
	}
	defer logging.Close(logger, f, "workbook")
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save builds the workbook and stores it at path, creating parent dirs.
func Save(logger gokitlog.Logger, path string, names []string, grid [][]bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export dir: %w", err)
		}
	}
	f, err := Build(logger, names, grid)
	if err != nil {
		return err
	}
	defer logging.Close(logger, f, "workbook")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func fill(f *excelize.File, names []string, grid [][]bool) error {
	st, err := newStyles(f)
	if err != nil {
		return err
	}
	layout := LayoutFor(len(names))

	header := make([]any, 0, days+1)
	header = append(header, "Habit Name")
	for _, d := range dayHeaders {
		header = append(header, d)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "H1", st.header); err != nil {
		return err
	}
	if err := f.SetRowHeight(SheetName, 1, 28); err != nil {
		return err
	}

	for h, name := range names {
		row := h + 2
		values := make([]any, 0, days+1)
		values = append(values, name)
		for d := 0; d < days; d++ {
			done := false
			if h < len(grid) && d < len(grid[h]) {
				done = grid[h][d]
			}
			values = append(values, done)
		}
		if err := f.SetSheetRow(SheetName, cell(1, row), &values); err != nil {
			return err
		}
		nameStyle, dayStyle := st.name, st.day
		if h%2 == 0 {
			nameStyle, dayStyle = st.nameStriped, st.dayStriped
		}
		if err := f.SetCellStyle(SheetName, cell(1, row), cell(1, row), nameStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell(2, row), cell(days+1, row), dayStyle); err != nil {
			return err
		}
	}

	if err := f.SetCellValue(SheetName, cell(1, layout.PctRow), "Daily %"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, cell(1, layout.PctRow), cell(1, layout.PctRow), st.label); err != nil {
		return err
	}
	for d := 0; d < days; d++ {
		col, err := excelize.ColumnNumberToName(d + 2)
		if err != nil {
			return err
		}
		formula := fmt.Sprintf("COUNTIF(%s2:%s%d,TRUE)/COUNTA(A2:A%d)", col, col, layout.LastDataRow, layout.LastDataRow)
		if err := f.SetCellFormula(SheetName, cell(d+2, layout.PctRow), formula); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetName, cell(2, layout.PctRow), cell(days+1, layout.PctRow), st.pct); err != nil {
		return err
	}

	if err := f.SetCellValue(SheetName, cell(1, layout.AvgRow), "Weekly Avg"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, cell(1, layout.AvgRow), cell(1, layout.AvgRow), st.label); err != nil {
		return err
	}
	avg := fmt.Sprintf("AVERAGE(B%d:H%d)", layout.PctRow, layout.PctRow)
	if err := f.SetCellFormula(SheetName, cell(2, layout.AvgRow), avg); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, cell(2, layout.AvgRow), cell(2, layout.AvgRow), st.avg); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "H", 14); err != nil {
		return err
	}
	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

type styles struct {
	header      int
	name        int
	nameStriped int
	day         int
	dayStriped  int
	label       int
	pct         int
	avg         int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	pctFmt := "0.0%"
	thin := borders("000000", 1)
	grey := borders("D0D5DD", 1)
	stripe := excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F0F4FF"}}
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	left := &excelize.Alignment{Horizontal: "left", Vertical: "center"}

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1B2A4A"}},
			Alignment: centered,
			Border:    thin,
		}},
		{&st.name, &excelize.Style{Alignment: left, Border: grey}},
		{&st.nameStriped, &excelize.Style{Alignment: left, Border: grey, Fill: stripe}},
		{&st.day, &excelize.Style{Alignment: centered, Border: grey}},
		{&st.dayStriped, &excelize.Style{Alignment: centered, Border: grey, Fill: stripe}},
		{&st.label, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Alignment: centered}},
		{&st.pct, &excelize.Style{
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E8F5E9"}},
			Alignment:    centered,
			Border:       thin,
			CustomNumFmt: &pctFmt,
		}},
		{&st.avg, &excelize.Style{
			Font:         &excelize.Font{Bold: true, Size: 13},
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF9C4"}},
			Alignment:    centered,
			Border:       borders("000000", 2),
			CustomNumFmt: &pctFmt,
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return styles{}, fmt.Errorf("failed to create style: %w", err)
		}
		*d.dst = id
	}
	return st, nil
}

func borders(color string, style int) []excelize.Border {
	out := make([]excelize.Border, 0, 4)
	for _, side := range []string{"top", "left", "bottom", "right"} {
		out = append(out, excelize.Border{Type: side, Color: color, Style: style})
	}
	return out
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// Columns and rows are always positive here.
		panic(err)
	}
	return name
}

func closeOnErr(logger gokitlog.Logger, f *excelize.File, err error) error {
	logging.Close(logger, f, "workbook")
	return fmt.Errorf("failed to build workbook: %w", err)
}
