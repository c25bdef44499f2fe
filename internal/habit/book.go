package habit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/teamdino/studykit/internal/model"
)

// Repository persists habits and their checks for a personal code.
type Repository interface {
	ListHabits(ctx context.Context, codeID string) ([]model.Habit, error)
	ListChecks(ctx context.Context, codeID string, weekStart time.Time) ([]model.HabitCheck, error)
	ListChecksSince(ctx context.Context, codeID string, since time.Time) ([]model.HabitCheck, error)
	AddHabit(ctx context.Context, codeID string, habit model.Habit) error
	DeleteHabit(ctx context.Context, codeID, name string) error
	RenameHabit(ctx context.Context, codeID, oldName, newName string) error
	ReorderHabits(ctx context.Context, codeID string, names []string) error
	SetCheck(ctx context.Context, codeID string, check model.HabitCheck) error
}

// Book is the tracker for one selected week plus where it is saved.
// Without a repository or code it is a temporary, memory-only page.
//
// Every mutating method changes the in-memory tracker first. A storage
// error is returned afterwards and the edit stays visible so it can be
// saved again.
type Book struct {
	Tracker *Tracker
	Week    time.Time

	repo   Repository
	codeID string
}

// OpenBook loads the habits of codeID and the checks of the given week.
func OpenBook(ctx context.Context, repo Repository, codeID string, week time.Time) (*Book, error) {
	b := &Book{Tracker: NewTracker(), Week: WeekStart(week), repo: repo, codeID: codeID}
	if !b.Persistent() {
		return b, nil
	}
	habits, err := repo.ListHabits(ctx, codeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	sort.SliceStable(habits, func(i, j int) bool { return habits[i].Position < habits[j].Position })
	for _, h := range habits {
		b.Tracker.Habits = append(b.Tracker.Habits, h.Name)
		b.Tracker.Checks = append(b.Tracker.Checks, [DaysPerWeek]bool{})
	}
	if err := b.loadChecks(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Persistent reports whether edits are saved.
func (b *Book) Persistent() bool {
	return b.repo != nil && b.codeID != ""
}

func (b *Book) loadChecks(ctx context.Context) error {
	checks, err := b.FetchWeek(ctx, b.Week)
	if err != nil {
		return err
	}
	b.ShowWeek(b.Week, checks)
	return nil
}

// SwitchWeek selects another week and loads its checks.
// Temporary pages keep no history, so the grid starts empty.
func (b *Book) SwitchWeek(ctx context.Context, week time.Time) error {
	week = WeekStart(week)
	checks, err := b.FetchWeek(ctx, week)
	if err != nil {
		return err
	}
	b.ShowWeek(week, checks)
	return nil
}

// FetchWeek reads the stored checks of a week without touching the tracker.
func (b *Book) FetchWeek(ctx context.Context, week time.Time) ([]model.HabitCheck, error) {
	if !b.Persistent() {
		return nil, nil
	}
	checks, err := b.repo.ListChecks(ctx, b.codeID, WeekStart(week))
	if err != nil {
		return nil, fmt.Errorf("failed to load checks: %w", err)
	}
	return checks, nil
}

// ShowWeek selects week and replaces the grid with checks.
func (b *Book) ShowWeek(week time.Time, checks []model.HabitCheck) {
	b.Week = WeekStart(week)
	for i := range b.Tracker.Checks {
		b.Tracker.Checks[i] = [DaysPerWeek]bool{}
	}
	ApplyChecks(b.Tracker, checks)
}

// Add appends a habit.
func (b *Book) Add(ctx context.Context, name string) error {
	if err := b.Tracker.Add(name); err != nil {
		return err
	}
	if !b.Persistent() {
		return nil
	}
	idx := b.Tracker.Len() - 1
	return b.PersistAdd(ctx, model.Habit{Name: b.Tracker.Habits[idx], Position: idx})
}

// Remove deletes habit i and its stored checks.
func (b *Book) Remove(ctx context.Context, i int) error {
	if i < 0 || i >= b.Tracker.Len() {
		return ErrOutOfRange
	}
	name := b.Tracker.Habits[i]
	if err := b.Tracker.Remove(i); err != nil {
		return err
	}
	return b.PersistRemove(ctx, name)
}

// Rename renames habit i.
func (b *Book) Rename(ctx context.Context, i int, name string) error {
	if i < 0 || i >= b.Tracker.Len() {
		return ErrOutOfRange
	}
	old := b.Tracker.Habits[i]
	if err := b.Tracker.Rename(i, name); err != nil {
		return err
	}
	return b.PersistRename(ctx, old, b.Tracker.Habits[i])
}

// Move reorders habit from to position to.
func (b *Book) Move(ctx context.Context, from, to int) error {
	if err := b.Tracker.Move(from, to); err != nil {
		return err
	}
	return b.PersistOrder(ctx, append([]string(nil), b.Tracker.Habits...))
}

// Toggle flips habit h on day d and returns the new value.
func (b *Book) Toggle(ctx context.Context, h, d int) (bool, error) {
	done, err := b.Tracker.Toggle(h, d)
	if err != nil {
		return false, err
	}
	return done, b.PersistCheck(ctx, b.CheckAt(h, d))
}

// CheckAt returns the record for habit h on day d of the selected week.
func (b *Book) CheckAt(h, d int) model.HabitCheck {
	return model.HabitCheck{HabitName: b.Tracker.Habits[h], WeekStart: b.Week, DayIndex: d, Completed: b.Tracker.Checks[h][d]}
}

// The Persist methods write one change that was already applied to the
// tracker. Callers must issue them in edit order.

// PersistAdd stores a new habit.
func (b *Book) PersistAdd(ctx context.Context, habit model.Habit) error {
	if !b.Persistent() {
		return nil
	}
	if err := b.repo.AddHabit(ctx, b.codeID, habit); err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}
	return nil
}

// PersistRemove deletes a stored habit and its checks.
func (b *Book) PersistRemove(ctx context.Context, name string) error {
	if !b.Persistent() {
		return nil
	}
	if err := b.repo.DeleteHabit(ctx, b.codeID, name); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

// PersistRename renames a stored habit.
func (b *Book) PersistRename(ctx context.Context, oldName, newName string) error {
	if !b.Persistent() || oldName == newName {
		return nil
	}
	if err := b.repo.RenameHabit(ctx, b.codeID, oldName, newName); err != nil {
		return fmt.Errorf("failed to rename habit: %w", err)
	}
	return nil
}

// PersistOrder stores the habit order.
func (b *Book) PersistOrder(ctx context.Context, names []string) error {
	if !b.Persistent() {
		return nil
	}
	if err := b.repo.ReorderHabits(ctx, b.codeID, names); err != nil {
		return fmt.Errorf("failed to reorder habits: %w", err)
	}
	return nil
}

// PersistCheck stores one cell.
func (b *Book) PersistCheck(ctx context.Context, check model.HabitCheck) error {
	if !b.Persistent() {
		return nil
	}
	if err := b.repo.SetCheck(ctx, b.codeID, check); err != nil {
		return fmt.Errorf("failed to save check: %w", err)
	}
	return nil
}

// Save writes every cell of the current week. It is used to retry after a
// failed write.
func (b *Book) Save(ctx context.Context) error {
	for _, check := range Records(b.Tracker, b.Week) {
		if err := b.PersistCheck(ctx, check); err != nil {
			return err
		}
	}
	return nil
}

// Yearly returns weekly percentages for stored weeks within the last year.
func (b *Book) Yearly(ctx context.Context, now time.Time) ([]model.WeekProgress, error) {
	if !b.Persistent() {
		return nil, nil
	}
	since := WeekStart(now).AddDate(0, 0, -7*51)
	checks, err := b.repo.ListChecksSince(ctx, b.codeID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load checks: %w", err)
	}
	return WeeklyProgress(b.Tracker.Habits, checks), nil
}

// ApplyChecks marks the tracker cells named by checks. Unknown habits and
// out-of-range days are ignored.
func ApplyChecks(t *Tracker, checks []model.HabitCheck) {
	for _, c := range checks {
		h := t.Index(c.HabitName)
		if h < 0 || c.DayIndex < 0 || c.DayIndex >= DaysPerWeek {
			continue
		}
		t.Checks[h][c.DayIndex] = c.Completed
	}
}

// Records flattens the tracker into one record per habit and day.
func Records(t *Tracker, weekStart time.Time) []model.HabitCheck {
	out := make([]model.HabitCheck, 0, len(t.Habits)*DaysPerWeek)
	for h, name := range t.Habits {
		for d := 0; d < DaysPerWeek; d++ {
			out = append(out, model.HabitCheck{
				HabitName: name,
				WeekStart: weekStart,
				DayIndex:  d,
				Completed: t.Checks[h][d],
			})
		}
	}
	return out
}

// WeeklyProgress groups checks by week and computes each week's average
// against the given habit list, oldest week first.
func WeeklyProgress(habits []string, checks []model.HabitCheck) []model.WeekProgress {
	if len(habits) == 0 {
		return nil
	}
	byWeek := map[string][]model.HabitCheck{}
	starts := map[string]time.Time{}
	for _, c := range checks {
		key := c.WeekStart.Format(WeekLayout)
		byWeek[key] = append(byWeek[key], c)
		starts[key] = c.WeekStart
	}
	keys := make([]string, 0, len(byWeek))
	for k := range byWeek {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.WeekProgress, 0, len(keys))
	for _, k := range keys {
		t := NewTracker(habits...)
		ApplyChecks(t, byWeek[k])
		out = append(out, model.WeekProgress{WeekStart: starts[k], Percentage: t.WeeklyPercentage()})
	}
	return out
}
