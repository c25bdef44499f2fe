package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/teamdino/studykit/internal/model"
)

const (
	barRune             = '#'
	minBarWidth         = 10
	terminalWidthBackup = 80
	// "2006-01-02 " + " 100%"
	barLabelWidth = 11 + 5
	colorReset    = "\x1b[0m"
)

var barColors = []struct {
	min  int
	code string
}{
	{min: 80, code: "\x1b[32m"},
	{min: 50, code: "\x1b[33m"},
	{min: 0, code: "\x1b[31m"},
}

// YearChart writes a horizontal bar per stored week. A width of zero uses
// the terminal width.
func YearChart(w io.Writer, progress []model.WeekProgress, width int) error {
	return yearChart(w, progress, width, false)
}

// YearChartWithColor is YearChart with forced ANSI colors.
func YearChartWithColor(w io.Writer, progress []model.WeekProgress, width int, forceColor bool) error {
	return yearChart(w, progress, width, forceColor)
}

func yearChart(w io.Writer, progress []model.WeekProgress, width int, forceColor bool) error {
	if len(progress) == 0 {
		_, err := fmt.Fprintln(w, "No stored weeks in the last year.")
		return err
	}
	if width <= 0 {
		width = BarWidthFor(terminalWidth())
	}
	if width < minBarWidth {
		width = minBarWidth
	}
	useColor := shouldUseColor(w, forceColor)

	if _, err := fmt.Fprintln(w, "Weekly completion, last 52 weeks"); err != nil {
		return err
	}
	total := 0
	for _, p := range progress {
		pct := clampPct(p.Percentage)
		total += pct
		filled := pct * width / 100
		bar := strings.Repeat(string(barRune), filled)
		if useColor && filled > 0 {
			bar = barColor(pct) + bar + colorReset
		}
		pad := strings.Repeat(" ", width-filled)
		if _, err := fmt.Fprintf(w, "%s %s%s %3d%%\n", p.WeekStart.Format("2006-01-02"), bar, pad, pct); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Average: %d%% over %d weeks\n", total/len(progress), len(progress))
	return err
}

// BarWidthFor computes a bar width that fits within the total available width.
func BarWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	bar := totalWidth - barLabelWidth - 1
	if bar < minBarWidth {
		return minBarWidth
	}
	return bar
}

func clampPct(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func barColor(pct int) string {
	for _, c := range barColors {
		if pct >= c.min {
			return c.code
		}
	}
	return ""
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
