package habit

import (
	"fmt"
	"strings"
	"time"
)

// WeekLayout is the date format of week start dates.
const WeekLayout = "2006-01-02"

// WeekStart returns midnight of the Monday on or before t, in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// PrevWeek returns the start of the week before weekStart.
func PrevWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, -7)
}

// NextWeek returns the start of the week after weekStart.
func NextWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 7)
}

// CanGoNext reports whether the week after weekStart has already begun.
func CanGoNext(weekStart, now time.Time) bool {
	return !NextWeek(WeekStart(weekStart)).After(WeekStart(now))
}

// DayIndex returns the Monday-based day index of t.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// TodayIndex returns the day index used for streaks: today's index for the
// current week, the last day for past weeks, and -1 for future weeks.
func TodayIndex(weekStart, now time.Time) int {
	current := WeekStart(now)
	ws := WeekStart(weekStart)
	switch {
	case ws.Equal(current):
		return DayIndex(now)
	case ws.Before(current):
		return DaysPerWeek - 1
	default:
		return -1
	}
}

// WeekLabel formats a week as "Jan 2 - Jan 8, 2006".
func WeekLabel(weekStart time.Time) string {
	end := weekStart.AddDate(0, 0, DaysPerWeek-1)
	return fmt.Sprintf("%s - %s", weekStart.Format("Jan 2"), end.Format("Jan 2, 2006"))
}

// ParseWeek parses a date and returns the start of its week.
// An empty value selects the current week.
func ParseWeek(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return WeekStart(now), nil
	}
	parsed, err := time.ParseInLocation(WeekLayout, value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week %q: %w", value, err)
	}
	ws := WeekStart(parsed)
	if ws.After(WeekStart(now)) {
		return time.Time{}, fmt.Errorf("week %s is in the future", ws.Format(WeekLayout))
	}
	return ws, nil
}

// ParseDay maps a day name (mon, monday) or 1-based number to a day index.
func ParseDay(value string) (int, error) {
	for i := 0; i < DaysPerWeek; i++ {
		if strings.EqualFold(value, DayNames[i]) || strings.EqualFold(value, FullDayNames[i]) || value == fmt.Sprint(i+1) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid day %q (use mon..sun or 1..7)", value)
}
