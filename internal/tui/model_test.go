package tui

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teamdino/studykit/internal/habit"
	"github.com/teamdino/studykit/internal/model"
)

var fixedNow = time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)

type stubRepo struct {
	checks []model.HabitCheck
	ops    []string
	fail   error
}

func (r *stubRepo) ListHabits(context.Context, string) ([]model.Habit, error) {
	return []model.Habit{{Name: "Read", Position: 0}, {Name: "Run", Position: 1}}, nil
}

func (r *stubRepo) ListChecks(_ context.Context, _ string, week time.Time) ([]model.HabitCheck, error) {
	if week.Equal(habit.PrevWeek(habit.WeekStart(fixedNow))) {
		return []model.HabitCheck{{HabitName: "Run", WeekStart: week, DayIndex: 6, Completed: true}}, nil
	}
	return nil, nil
}

func (r *stubRepo) ListChecksSince(context.Context, string, time.Time) ([]model.HabitCheck, error) {
	return nil, nil
}

func (r *stubRepo) AddHabit(context.Context, string, model.Habit) error { return r.fail }

func (r *stubRepo) DeleteHabit(context.Context, string, string) error { return r.fail }

func (r *stubRepo) RenameHabit(_ context.Context, _ string, oldName, newName string) error {
	r.ops = append(r.ops, "rename "+oldName+" "+newName)
	return r.fail
}

func (r *stubRepo) ReorderHabits(context.Context, string, []string) error { return r.fail }

func (r *stubRepo) SetCheck(_ context.Context, _ string, c model.HabitCheck) error {
	if r.fail != nil {
		return r.fail
	}
	r.checks = append(r.checks, c)
	r.ops = append(r.ops, "check "+c.HabitName)
	return nil
}

// slowRepo delays completed writes so out-of-order saves would be visible.
type slowRepo struct {
	stubRepo
	mu     sync.Mutex
	stored map[int]bool
}

func (r *slowRepo) SetCheck(_ context.Context, _ string, c model.HabitCheck) error {
	if c.Completed {
		time.Sleep(50 * time.Millisecond)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored[c.DayIndex] = c.Completed
	return nil
}

func newTestModel(t *testing.T, repo habit.Repository, code string) *Model {
	t.Helper()
	book, err := habit.OpenBook(context.Background(), repo, code, fixedNow)
	if err != nil {
		t.Fatalf("open book: %v", err)
	}
	return NewModel(book, Options{
		Code:       code,
		ExportPath: filepath.Join(t.TempDir(), "out.xlsx"),
		Now:        func() time.Time { return fixedNow },
	})
}

func press(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestCursorStartsOnToday(t *testing.T) {
	m := newTestModel(t, nil, "")
	if m.col != 2 {
		t.Fatalf("expected cursor on Wednesday, got %d", m.col)
	}
}

func TestTemporaryModeAddAndToggle(t *testing.T) {
	m := newTestModel(t, nil, "")
	press(m, "a")
	if m.mode != modeAdd {
		t.Fatalf("expected add mode")
	}
	typeText(m, "  Read ")
	press(m, "enter")
	if got := m.book.Tracker.Habits; len(got) != 1 || got[0] != "Read" {
		t.Fatalf("unexpected habits: %v", got)
	}
	press(m, " ")
	if !m.book.Tracker.Checks[0][2] {
		t.Fatalf("expected toggled cell")
	}
	if !strings.Contains(m.View(), "Temporary mode") {
		t.Fatalf("expected temporary banner:\n%s", m.View())
	}
}

func TestAddRejectsDuplicate(t *testing.T) {
	m := newTestModel(t, &stubRepo{}, "code")
	press(m, "a")
	typeText(m, "Read")
	press(m, "enter")
	if m.mode != modeAdd || !m.failed {
		t.Fatalf("expected to stay in add mode with an error")
	}
	press(m, "esc")
	if m.mode != modeGrid {
		t.Fatalf("esc should close the modal")
	}
}

func TestToggleSavesImmediately(t *testing.T) {
	repo := &stubRepo{}
	m := newTestModel(t, repo, "code")
	if cmd := press(m, " "); cmd != nil {
		t.Fatalf("toggle should save inside Update")
	}
	if len(repo.checks) != 1 || repo.checks[0].HabitName != "Read" || repo.checks[0].DayIndex != 2 || !repo.checks[0].Completed {
		t.Fatalf("unexpected stored checks: %+v", repo.checks)
	}
}

func TestSaveFailureKeepsState(t *testing.T) {
	repo := &stubRepo{fail: errors.New("disk full")}
	m := newTestModel(t, repo, "code")
	press(m, " ")
	if !m.book.Tracker.Checks[0][2] {
		t.Fatalf("failed save should not roll back")
	}
	if !m.failed || !strings.Contains(m.status, "disk full") {
		t.Fatalf("expected error status, got %q", m.status)
	}
}

func TestSaveWeekRewritesEveryCell(t *testing.T) {
	repo := &stubRepo{}
	m := newTestModel(t, repo, "code")
	press(m, "s")
	if len(repo.checks) != 2*habit.DaysPerWeek {
		t.Fatalf("expected %d stored cells, got %d", 2*habit.DaysPerWeek, len(repo.checks))
	}

	tmp := newTestModel(t, nil, "")
	press(tmp, "s")
	if !strings.Contains(tmp.status, "Temporary mode") {
		t.Fatalf("temporary mode should not save, status %q", tmp.status)
	}
}

func TestWeekNavigation(t *testing.T) {
	m := newTestModel(t, &stubRepo{}, "code")
	press(m, "]")
	if !m.book.Week.Equal(habit.WeekStart(fixedNow)) || !strings.Contains(m.status, "locked") {
		t.Fatalf("future week should be locked, status %q", m.status)
	}
	press(m, "[")
	if !m.book.Week.Equal(habit.PrevWeek(habit.WeekStart(fixedNow))) {
		t.Fatalf("expected previous week, got %v", m.book.Week)
	}
	if !m.book.Tracker.Checks[1][6] {
		t.Fatalf("expected checks of previous week to load")
	}
	press(m, "]")
	if !m.book.Week.Equal(habit.WeekStart(fixedNow)) || m.book.Tracker.Checks[1][6] {
		t.Fatalf("expected current week grid")
	}
}

func TestRenameMoveDelete(t *testing.T) {
	repo := &stubRepo{}
	m := newTestModel(t, repo, "code")
	press(m, "r")
	m.input.SetValue("Jog")
	press(m, "enter")
	press(m, " ")
	if len(repo.ops) != 2 || repo.ops[0] != "rename Read Jog" || repo.ops[1] != "check Jog" {
		t.Fatalf("writes out of order: %v", repo.ops)
	}
	press(m, "J")
	if got := m.book.Tracker.Habits; got[0] != "Run" || got[1] != "Jog" || m.row != 1 {
		t.Fatalf("unexpected order %v row %d", got, m.row)
	}
	press(m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected confirmation")
	}
	press(m, "n")
	if m.book.Tracker.Len() != 2 {
		t.Fatalf("delete should be cancelled")
	}
	press(m, "d")
	press(m, "y")
	if got := m.book.Tracker.Habits; len(got) != 1 || got[0] != "Run" || m.row != 0 {
		t.Fatalf("unexpected habits after delete %v row %d", got, m.row)
	}
}

func TestRapidTogglesReachStoreInOrder(t *testing.T) {
	repo := &slowRepo{stored: map[int]bool{}}
	m := newTestModel(t, repo, "code")
	p := tea.NewProgram(m, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutSignalHandler())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	p.Send(space)
	p.Send(space)
	p.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if ui := m.book.Tracker.Checks[0][2]; ui || repo.stored[2] != ui {
		t.Fatalf("store diverged from grid: ui=%v stored=%v", ui, repo.stored[2])
	}
}

func TestExportCommand(t *testing.T) {
	m := newTestModel(t, &stubRepo{}, "code")
	cmd := press(m, "x")
	if cmd == nil {
		t.Fatalf("expected export command")
	}
	m.Update(cmd())
	if m.failed || !strings.Contains(m.status, "Exported to") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t, nil, "")
	out := m.renderFooter()
	if !containsAll(out, []string{"space toggle", "a add", "[ prev week", "x export", "q quit"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	m.book.ShowWeek(habit.PrevWeek(m.book.Week), nil)
	if !strings.Contains(m.renderFooter(), "[ ] week") {
		t.Fatalf("expected week navigation hint for past weeks")
	}
}

func TestViewShowsPercentages(t *testing.T) {
	m := newTestModel(t, &stubRepo{}, "code")
	press(m, " ")
	out := m.View()
	if !containsAll(out, []string{"Code: code", "Daily %", "50%", "Weekly average: 7%", "Read", "Run"}) {
		t.Fatalf("view missing expected content:\n%s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
