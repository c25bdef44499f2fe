package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/teamdino/studykit/internal/habit"
)

const (
	checkedMark   = "x"
	uncheckedMark = "."
)

// Week writes the habit grid of one week with daily and weekly percentages.
// Streaks count back from today in the current week and from Sunday in past weeks.
func Week(w io.Writer, t *habit.Tracker, weekStart, now time.Time) error {
	if _, err := fmt.Fprintf(w, "Week of %s\n", habit.WeekLabel(weekStart)); err != nil {
		return err
	}
	if t.Len() == 0 {
		_, err := fmt.Fprintln(w, "No habits yet.")
		return err
	}

	headers := append([]string{"Habit"}, habit.DayNames[:]...)
	headers = append(headers, "Streak")
	right := map[int]bool{len(headers) - 1: true}
	today := habit.TodayIndex(weekStart, now)

	rows := make([][]string, 0, t.Len()+1)
	for h, name := range t.Habits {
		row := []string{name}
		for d := 0; d < habit.DaysPerWeek; d++ {
			mark := uncheckedMark
			if t.Checks[h][d] {
				mark = checkedMark
			}
			row = append(row, mark)
		}
		rows = append(rows, append(row, strconv.Itoa(t.Streak(h, today))))
	}
	daily := t.DailyPercentages()
	pctRow := []string{"Daily %"}
	for _, p := range daily {
		pctRow = append(pctRow, fmt.Sprintf("%d%%", p))
	}
	rows = append(rows, pctRow)

	if err := writeLines(w, formatTable(headers, rows, right)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Weekly average: %d%%\n", t.WeeklyPercentage())
	return err
}
