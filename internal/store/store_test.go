package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/teamdino/studykit/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "studykit.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return s
}

func TestCodes(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	if _, err := s.FindCode(ctx, "abcd"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
	created, err := s.CreateCode(ctx, "abcd")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if _, err := s.CreateCode(ctx, "abcd"); !errors.Is(err, ErrCodeTaken) {
		t.Fatalf("expected ErrCodeTaken, got %v", err)
	}
	found, err := s.FindCode(ctx, "abcd")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != created.ID || found.CreatedAt.IsZero() {
		t.Fatalf("unexpected code: %+v", found)
	}
}

func TestHabitLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	week := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"Read", "Run", "Sleep"} {
		if err := s.AddHabit(ctx, "c1", model.Habit{Name: name, Position: i}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	if err := s.AddHabit(ctx, "c2", model.Habit{Name: "Other", Position: 0}); err != nil {
		t.Fatalf("add other: %v", err)
	}
	if err := s.SetCheck(ctx, "c1", model.HabitCheck{HabitName: "Run", WeekStart: week, DayIndex: 2, Completed: true}); err != nil {
		t.Fatalf("set check: %v", err)
	}
	if err := s.SetCheck(ctx, "c1", model.HabitCheck{HabitName: "Read", WeekStart: week, DayIndex: 0, Completed: true}); err != nil {
		t.Fatalf("set check: %v", err)
	}

	if err := s.RenameHabit(ctx, "c1", "Run", "Jog"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := s.ReorderHabits(ctx, "c1", []string{"Jog", "Sleep", "Read"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	habits, err := s.ListHabits(ctx, "c1")
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(habits) != 3 || habits[0].Name != "Jog" || habits[1].Name != "Sleep" || habits[2].Name != "Read" {
		t.Fatalf("unexpected habits: %+v", habits)
	}

	checks, err := s.ListChecks(ctx, "c1", week)
	if err != nil {
		t.Fatalf("list checks: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("expected 2 checks, got %+v", checks)
	}

	if err := s.DeleteHabit(ctx, "c1", "Jog"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteHabit(ctx, "c1", "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	habits, err = s.ListHabits(ctx, "c1")
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(habits) != 2 || habits[0].Position != 0 || habits[1].Position != 1 {
		t.Fatalf("positions not compacted: %+v", habits)
	}
	checks, err = s.ListChecks(ctx, "c1", week)
	if err != nil {
		t.Fatalf("list checks: %v", err)
	}
	if len(checks) != 1 || checks[0].HabitName != "Read" || !checks[0].WeekStart.Equal(week) {
		t.Fatalf("unexpected checks after delete: %+v", checks)
	}

	other, err := s.ListHabits(ctx, "c2")
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("other code affected: %+v", other)
	}
}

func TestSetCheckUpserts(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	week := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	check := model.HabitCheck{HabitName: "Read", WeekStart: week, DayIndex: 5, Completed: true}
	if err := s.SetCheck(ctx, "c", check); err != nil {
		t.Fatalf("set: %v", err)
	}
	check.Completed = false
	if err := s.SetCheck(ctx, "c", check); err != nil {
		t.Fatalf("set: %v", err)
	}
	checks, err := s.ListChecks(ctx, "c", week)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(checks) != 1 || checks[0].Completed {
		t.Fatalf("expected one unchecked cell, got %+v", checks)
	}
}

func TestListChecksSince(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		week := base.AddDate(0, 0, -7*i)
		if err := s.SetCheck(ctx, "c", model.HabitCheck{HabitName: "Read", WeekStart: week, DayIndex: 0, Completed: true}); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	checks, err := s.ListChecksSince(ctx, "c", base.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("expected 2 weeks, got %+v", checks)
	}
	if !checks[0].WeekStart.Before(checks[1].WeekStart) {
		t.Fatalf("expected ascending weeks: %+v", checks)
	}
}
