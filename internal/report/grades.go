package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/teamdino/studykit/internal/grade"
	"github.com/teamdino/studykit/internal/model"
)

const dash = "-"

// GradeChart writes the letter band table.
func GradeChart(w io.Writer) error {
	rows := make([][]string, 0, len(grade.Bands()))
	for _, b := range grade.Bands() {
		rows = append(rows, []string{b.Letter, fmt.Sprintf("%.2f - %.2f", b.Min, b.Max)})
	}
	return writeLines(w, formatTable([]string{"Grade", "Grade points"}, rows, nil))
}

// LabelChart writes the selectable labels of an assessment and their points.
// Labels resolved from sessional marks show "marks" instead of a point.
func LabelChart(w io.Writer, title string, options []grade.Option) error {
	rows := make([][]string, 0, len(options))
	for _, o := range options {
		point := formatNumber(o.Point)
		if o.Special {
			point = "marks"
		}
		rows = append(rows, []string{o.Label, point})
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	return writeLines(w, formatTable([]string{"Label", "Points"}, rows, map[int]bool{1: true}))
}

// Courses writes one row per course. With formula set, each resolved course
// is followed by its weighted grade point breakdown.
func Courses(w io.Writer, courses []model.Course, formula bool) error {
	headers := []string{"Course", "Credits", "S1", "S2", "LE", "Lab", "WGP", "Final", "Grade"}
	right := map[int]bool{1: true, 5: true, 6: true, 7: true}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, courseRow(c))
	}
	lines := formatTable(headers, rows, right)
	if len(lines) == 0 {
		return nil
	}
	if err := writeLines(w, lines[:1]); err != nil {
		return err
	}
	for i, c := range courses {
		if err := writeLines(w, lines[i+1:i+2]); err != nil {
			return err
		}
		if !formula {
			continue
		}
		if err := writeLines(w, FormulaLines(c)); err != nil {
			return err
		}
	}
	return nil
}

func courseRow(c model.Course) []string {
	row := []string{c.Name, strconv.Itoa(c.Credits)}
	if grade.IsCLAD(c.Name) {
		row = append(row, dash, dash, dash, dash)
	} else {
		for _, kind := range model.StandardKinds {
			row = append(row, assessmentCell(c.Assessment(kind)))
		}
		lab := dash
		if c.HasLab {
			lab = "on"
			if c.LabMarks != nil {
				lab = formatNumber(*c.LabMarks)
			}
		}
		row = append(row, lab)
	}
	row = append(row, pointCell(c.WGP), pointCell(c.FinalGradePoint))
	letter := c.LetterGrade
	if letter == "" {
		letter = "pending"
	}
	return append(row, letter)
}

func assessmentCell(a *model.Assessment) string {
	if a == nil || a.GradeLabel == "" {
		return dash
	}
	if a.Kind.IsSessional() && a.Marks != nil {
		return fmt.Sprintf("%s (%s)", a.GradeLabel, formatNumber(*a.Marks))
	}
	return a.GradeLabel
}

func pointCell(v *float64) string {
	if v == nil {
		return dash
	}
	return formatNumber(*v)
}

// FormulaLines explains how a course arrived at its final grade point.
func FormulaLines(c model.Course) []string {
	if grade.IsCLAD(c.Name) {
		if c.DirectGrade == "" {
			return []string{"    CLAD: no grade selected"}
		}
		return []string{fmt.Sprintf("    CLAD: direct grade %s = %s", c.DirectGrade, pointCell(c.FinalGradePoint))}
	}
	if isF, reason := grade.CheckForF(c.Assessments); isF {
		return []string{"    F: " + reason}
	}
	terms, raw, ok := grade.Breakdown(c)
	if !ok {
		return []string{"    waiting for grades or sessional marks"}
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, fmt.Sprintf("%s(%s) x %.2f", t.Label, formatNumber(t.GradePoint), t.Weight))
	}
	lines := []string{
		fmt.Sprintf("    WGP = %s = %.2f -> %s", strings.Join(parts, " + "), raw, formatNumber(grade.RoundUp(raw))),
	}
	if c.HasLab && c.LabMarks != nil && c.WGP != nil {
		theory := *c.WGP / 10 * 100 * 0.7
		lab := *c.LabMarks * 0.3
		lines = append(lines, fmt.Sprintf("    Lab: %.2f theory + %.2f lab = %.2f / 10 -> %s",
			theory, lab, theory+lab, pointCell(c.FinalGradePoint)))
	}
	return lines
}

// Summary writes the semester result and, when cum is set, the cumulative one.
func Summary(w io.Writer, sem grade.SemesterResult, ok bool, cum *grade.CumulativeResult) error {
	if !ok {
		_, err := fmt.Fprintln(w, "SGPA: no resolved courses yet")
		return err
	}
	if _, err := fmt.Fprintf(w, "SGPA: %.2f (%d credits, %.2f grade points)\n", sem.SGPA, sem.TotalCredits, sem.TotalGradePoints); err != nil {
		return err
	}
	if cum == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "CGPA: %.2f (%d credits, %.2f grade points)\n", cum.CGPA, cum.TotalCredits, cum.TotalGradePoints)
	return err
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
