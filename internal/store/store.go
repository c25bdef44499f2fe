// Package store handles SQLite persistence of personal codes and habits.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teamdino/studykit/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	ErrCodeNotFound = errors.New("personal code not found")
	ErrCodeTaken    = errors.New("personal code already in use")
)

const weekLayout = "2006-01-02"

// Store wraps SQLite access for habit data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_codes (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			code_id TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (code_id, name)
		);`,
		`CREATE TABLE IF NOT EXISTS habit_checks (
			code_id TEXT NOT NULL,
			habit_name TEXT NOT NULL,
			week_start TEXT NOT NULL,
			day_index INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			PRIMARY KEY (code_id, habit_name, week_start, day_index)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_habit_checks_week ON habit_checks(code_id, week_start);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// FindCode looks up a personal code.
func (s *Store) FindCode(ctx context.Context, code string) (model.UserCode, error) {
	var uc model.UserCode
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, created_at FROM user_codes WHERE code = ?`, code,
	).Scan(&uc.ID, &uc.Code, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserCode{}, ErrCodeNotFound
	}
	if err != nil {
		return model.UserCode{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.UserCode{}, err
	}
	uc.CreatedAt = parsed
	return uc, nil
}

// CreateCode registers a new personal code.
func (s *Store) CreateCode(ctx context.Context, code string) (model.UserCode, error) {
	if _, err := s.FindCode(ctx, code); err == nil {
		return model.UserCode{}, ErrCodeTaken
	} else if !errors.Is(err, ErrCodeNotFound) {
		return model.UserCode{}, err
	}
	uc := model.UserCode{ID: uuid.NewString(), Code: code, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_codes (id, code, created_at) VALUES (?, ?, ?)`,
		uc.ID, uc.Code, uc.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.UserCode{}, ErrCodeTaken
		}
		return model.UserCode{}, err
	}
	return uc, nil
}

// ListHabits returns the habits of a code ordered by position.
func (s *Store) ListHabits(ctx context.Context, codeID string) ([]model.Habit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, position FROM habits WHERE code_id = ? ORDER BY position ASC, name ASC`, codeID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var habits []model.Habit
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(&h.Name, &h.Position); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return habits, nil
}

// AddHabit stores a new habit.
func (s *Store) AddHabit(ctx context.Context, codeID string, habit model.Habit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habits (code_id, name, position) VALUES (?, ?, ?)
		 ON CONFLICT(code_id, name) DO UPDATE SET position = excluded.position`,
		codeID, habit.Name, habit.Position)
	return err
}

// DeleteHabit removes a habit with all its checks and closes the gap in positions.
func (s *Store) DeleteHabit(ctx context.Context, codeID, name string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var position int
	err = tx.QueryRowContext(ctx, `SELECT position FROM habits WHERE code_id = ? AND name = ?`, codeID, name).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return tx.Commit()
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM habits WHERE code_id = ? AND name = ?`, codeID, name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM habit_checks WHERE code_id = ? AND habit_name = ?`, codeID, name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE habits SET position = position - 1 WHERE code_id = ? AND position > ?`, codeID, position); err != nil {
		return err
	}
	return tx.Commit()
}

// RenameHabit renames a habit and moves its checks to the new name.
func (s *Store) RenameHabit(ctx context.Context, codeID, oldName, newName string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE habits SET name = ? WHERE code_id = ? AND name = ?`, newName, codeID, oldName); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE habit_checks SET habit_name = ? WHERE code_id = ? AND habit_name = ?`, newName, codeID, oldName); err != nil {
		return err
	}
	return tx.Commit()
}

// ReorderHabits stores names as the new habit order.
func (s *Store) ReorderHabits(ctx context.Context, codeID string, names []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `UPDATE habits SET position = ? WHERE code_id = ? AND name = ?`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, name := range names {
		if _, err = stmt.ExecContext(ctx, i, codeID, name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SetCheck upserts one cell keyed by code, habit, week and day.
func (s *Store) SetCheck(ctx context.Context, codeID string, check model.HabitCheck) error {
	completed := 0
	if check.Completed {
		completed = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habit_checks (code_id, habit_name, week_start, day_index, completed)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(code_id, habit_name, week_start, day_index) DO UPDATE SET completed = excluded.completed`,
		codeID, check.HabitName, check.WeekStart.Format(weekLayout), check.DayIndex, completed)
	if err != nil {
		return fmt.Errorf("failed to upsert check: %w", err)
	}
	return nil
}

// ListChecks returns the stored cells of one week.
func (s *Store) ListChecks(ctx context.Context, codeID string, weekStart time.Time) ([]model.HabitCheck, error) {
	return s.queryChecks(ctx, `SELECT habit_name, week_start, day_index, completed
		FROM habit_checks
		WHERE code_id = ? AND week_start = ?`, weekStart.Location(), codeID, weekStart.Format(weekLayout))
}

// ListChecksSince returns stored cells of every week starting on or after since.
func (s *Store) ListChecksSince(ctx context.Context, codeID string, since time.Time) ([]model.HabitCheck, error) {
	return s.queryChecks(ctx, `SELECT habit_name, week_start, day_index, completed
		FROM habit_checks
		WHERE code_id = ? AND week_start >= ?
		ORDER BY week_start ASC`, since.Location(), codeID, since.Format(weekLayout))
}

func (s *Store) queryChecks(ctx context.Context, query string, loc *time.Location, args ...any) ([]model.HabitCheck, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var checks []model.HabitCheck
	for rows.Next() {
		var c model.HabitCheck
		var week string
		var completed int
		if err := rows.Scan(&c.HabitName, &week, &c.DayIndex, &completed); err != nil {
			return nil, err
		}
		parsed, err := time.ParseInLocation(weekLayout, week, loc)
		if err != nil {
			return nil, err
		}
		c.WeekStart = parsed
		c.Completed = completed != 0
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return checks, nil
}
