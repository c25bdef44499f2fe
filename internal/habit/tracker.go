// Package habit holds the weekly habit grid and its progress figures.
package habit

import (
	"errors"
	"math"
	"strings"
)

// DaysPerWeek is the number of columns in the grid, Monday first.
const DaysPerWeek = 7

// DayNames are the short column labels.
var DayNames = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// FullDayNames are the long column labels used in exports.
var FullDayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var (
	ErrEmptyName  = errors.New("habit name is empty")
	ErrDuplicate  = errors.New("habit already exists")
	ErrOutOfRange = errors.New("habit or day out of range")
)

// Tracker is one week of habits. Checks[h][d] is true when habit h was done on day d.
type Tracker struct {
	Habits []string
	Checks [][DaysPerWeek]bool
}

// NewTracker returns a tracker for the given habits with nothing checked.
func NewTracker(habits ...string) *Tracker {
	t := &Tracker{}
	for _, h := range habits {
		// Names from storage are already unique.
		_ = t.Add(h)
	}
	return t
}

// Len returns the number of habits.
func (t *Tracker) Len() int {
	return len(t.Habits)
}

// Index returns the position of a habit or -1.
func (t *Tracker) Index(name string) int {
	for i, h := range t.Habits {
		if h == name {
			return i
		}
	}
	return -1
}

// Add appends a habit. The name is trimmed; empty and duplicate names are rejected.
func (t *Tracker) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if t.Index(name) >= 0 {
		return ErrDuplicate
	}
	t.Habits = append(t.Habits, name)
	t.Checks = append(t.Checks, [DaysPerWeek]bool{})
	return nil
}

// Remove deletes the habit at index i.
func (t *Tracker) Remove(i int) error {
	if i < 0 || i >= len(t.Habits) {
		return ErrOutOfRange
	}
	t.Habits = append(t.Habits[:i], t.Habits[i+1:]...)
	t.Checks = append(t.Checks[:i], t.Checks[i+1:]...)
	return nil
}

// Rename changes the name of habit i, keeping its checks.
func (t *Tracker) Rename(i int, name string) error {
	if i < 0 || i >= len(t.Habits) {
		return ErrOutOfRange
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if name == t.Habits[i] {
		return nil
	}
	if t.Index(name) >= 0 {
		return ErrDuplicate
	}
	t.Habits[i] = name
	return nil
}

// Move reorders habit from to position to.
func (t *Tracker) Move(from, to int) error {
	if from < 0 || from >= len(t.Habits) || to < 0 || to >= len(t.Habits) {
		return ErrOutOfRange
	}
	if from == to {
		return nil
	}
	name, checks := t.Habits[from], t.Checks[from]
	t.Habits = append(t.Habits[:from], t.Habits[from+1:]...)
	t.Checks = append(t.Checks[:from], t.Checks[from+1:]...)
	t.Habits = append(t.Habits[:to], append([]string{name}, t.Habits[to:]...)...)
	t.Checks = append(t.Checks[:to], append([][DaysPerWeek]bool{checks}, t.Checks[to:]...)...)
	return nil
}

// Toggle flips habit h on day d and returns the new value.
func (t *Tracker) Toggle(h, d int) (bool, error) {
	if h < 0 || h >= len(t.Habits) || d < 0 || d >= DaysPerWeek {
		return false, ErrOutOfRange
	}
	t.Checks[h][d] = !t.Checks[h][d]
	return t.Checks[h][d], nil
}

// Set marks habit h on day d.
func (t *Tracker) Set(h, d int, done bool) error {
	if h < 0 || h >= len(t.Habits) || d < 0 || d >= DaysPerWeek {
		return ErrOutOfRange
	}
	t.Checks[h][d] = done
	return nil
}

// DailyPercentages returns the rounded share of habits done on each day.
func (t *Tracker) DailyPercentages() [DaysPerWeek]int {
	var out [DaysPerWeek]int
	if len(t.Habits) == 0 {
		return out
	}
	for d := 0; d < DaysPerWeek; d++ {
		done := 0
		for _, row := range t.Checks {
			if row[d] {
				done++
			}
		}
		out[d] = roundPct(float64(done) / float64(len(t.Habits)) * 100)
	}
	return out
}

// WeeklyPercentage averages the rounded daily percentages.
func (t *Tracker) WeeklyPercentage() int {
	if len(t.Habits) == 0 {
		return 0
	}
	sum := 0
	for _, p := range t.DailyPercentages() {
		sum += p
	}
	return roundPct(float64(sum) / DaysPerWeek)
}

// Streak counts consecutive done days of habit h ending at day today.
// An unchecked today does not break the streak; counting starts from the day before.
func (t *Tracker) Streak(h, today int) int {
	if h < 0 || h >= len(t.Habits) {
		return 0
	}
	if today < 0 {
		return 0
	}
	if today >= DaysPerWeek {
		today = DaysPerWeek - 1
	}
	row := t.Checks[h]
	d := today
	if !row[d] {
		d--
	}
	streak := 0
	for ; d >= 0 && row[d]; d-- {
		streak++
	}
	return streak
}

// Grid returns a copy of the checks as a habit x day matrix.
func (t *Tracker) Grid() [][]bool {
	out := make([][]bool, len(t.Checks))
	for i, row := range t.Checks {
		out[i] = append([]bool(nil), row[:]...)
	}
	return out
}

// roundPct rounds half up.
func roundPct(v float64) int {
	return int(math.Floor(v + 0.5))
}
