package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/teamdino/studykit/internal/config"
	"github.com/teamdino/studykit/internal/export"
	"github.com/teamdino/studykit/internal/habit"
	"github.com/teamdino/studykit/internal/logging"
	"github.com/teamdino/studykit/internal/report"
	"github.com/teamdino/studykit/internal/session"
	"github.com/teamdino/studykit/internal/store"
	"github.com/teamdino/studykit/internal/tui"
)

var (
	habitsWeek string
	exportOut  string
	yearColor  bool
)

func newHabitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Open the weekly habit tracker",
		Args:  cobra.NoArgs,
		RunE:  runHabitsTUI,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print a week of habits",
		Args:  cobra.NoArgs,
		RunE:  runHabitsShow,
	}
	show.Flags().StringVar(&habitsWeek, "week", "", "any date in the week (YYYY-MM-DD, default: this week)")

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a habit",
		Args:  cobra.ExactArgs(1),
		RunE: withBook(func(ctx context.Context, b *habit.Book, args []string) (string, error) {
			if err := b.Add(ctx, args[0]); err != nil {
				return "", err
			}
			return "Added " + b.Tracker.Habits[b.Tracker.Len()-1], nil
		}),
	}

	rm := &cobra.Command{
		Use:   "rm NAME",
		Short: "Remove a habit and its history",
		Args:  cobra.ExactArgs(1),
		RunE: withBook(func(ctx context.Context, b *habit.Book, args []string) (string, error) {
			i, err := habitIndex(b, args[0])
			if err != nil {
				return "", err
			}
			name := b.Tracker.Habits[i]
			if err := b.Remove(ctx, i); err != nil {
				return "", err
			}
			return "Removed " + name, nil
		}),
	}

	rename := &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a habit",
		Args:  cobra.ExactArgs(2),
		RunE: withBook(func(ctx context.Context, b *habit.Book, args []string) (string, error) {
			i, err := habitIndex(b, args[0])
			if err != nil {
				return "", err
			}
			if err := b.Rename(ctx, i, args[1]); err != nil {
				return "", err
			}
			return fmt.Sprintf("Renamed %s to %s", args[0], b.Tracker.Habits[i]), nil
		}),
	}

	move := &cobra.Command{
		Use:   "move NAME POSITION",
		Short: "Move a habit to a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: withBook(func(ctx context.Context, b *habit.Book, args []string) (string, error) {
			i, err := habitIndex(b, args[0])
			if err != nil {
				return "", err
			}
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return "", fmt.Errorf("invalid position %q", args[1])
			}
			if err := b.Move(ctx, i, pos-1); err != nil {
				return "", err
			}
			return fmt.Sprintf("Moved %s to position %d", args[0], pos), nil
		}),
	}

	check := &cobra.Command{
		Use:   "check NAME DAY",
		Short: "Toggle a habit on a day (mon..sun or 1..7)",
		Args:  cobra.ExactArgs(2),
		RunE: withBook(func(ctx context.Context, b *habit.Book, args []string) (string, error) {
			i, err := habitIndex(b, args[0])
			if err != nil {
				return "", err
			}
			d, err := habit.ParseDay(args[1])
			if err != nil {
				return "", err
			}
			done, err := b.Toggle(ctx, i, d)
			if err != nil {
				return "", err
			}
			state := "not done"
			if done {
				state = "done"
			}
			return fmt.Sprintf("%s on %s: %s", args[0], habit.FullDayNames[d], state), nil
		}),
	}
	check.Flags().StringVar(&habitsWeek, "week", "", "any date in the week (YYYY-MM-DD, default: this week)")

	exp := &cobra.Command{
		Use:   "export",
		Short: "Write the week to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE:  runHabitsExport,
	}
	exp.Flags().StringVar(&exportOut, "out", "", "output file, - for stdout (default: "+export.FileName+" in the configured export dir)")
	exp.Flags().StringVar(&habitsWeek, "week", "", "any date in the week (YYYY-MM-DD, default: this week)")

	year := &cobra.Command{
		Use:   "year",
		Short: "Chart weekly completion over the last year",
		Args:  cobra.NoArgs,
		RunE:  runHabitsYear,
	}
	year.Flags().BoolVar(&yearColor, "color", false, "color the bars even when not writing to a terminal")

	cmd.AddCommand(show, add, rm, rename, move, check, exp, year)
	return cmd
}

func runHabitsTUI(cmd *cobra.Command, _ []string) error {
	s, err := session.Load(config.DefaultSessionPath())
	if err != nil {
		return err
	}
	var repo habit.Repository
	if s.LoggedIn() {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(st)
		repo = st
	}

	now := time.Now()
	week, err := habit.ParseWeek(s.Week, now)
	if err != nil {
		week = habit.WeekStart(now)
	}
	book, err := habit.OpenBook(cmd.Context(), repo, s.CodeID, week)
	if err != nil {
		return err
	}
	model := tui.NewModel(book, tui.Options{
		Code:       s.Code,
		ExportPath: exportPath(),
		Logger:     logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if s.LoggedIn() {
		s.Week = book.Week.Format(habit.WeekLayout)
		if err := session.Save(config.DefaultSessionPath(), s); err != nil {
			logging.Error(logger, "failed to remember week", err)
		}
	}
	return nil
}

func runHabitsShow(cmd *cobra.Command, _ []string) error {
	return useBook(cmd, func(_ context.Context, b *habit.Book) error {
		return report.Week(cmd.OutOrStdout(), b.Tracker, b.Week, time.Now())
	})
}

func runHabitsExport(cmd *cobra.Command, _ []string) error {
	return useBook(cmd, func(_ context.Context, b *habit.Book) error {
		if b.Tracker.Len() == 0 {
			return fmt.Errorf("no habits to export")
		}
		if exportOut == "-" {
			return export.Write(logger, cmd.OutOrStdout(), b.Tracker.Habits, b.Tracker.Grid())
		}
		path := exportOut
		if path == "" {
			path = exportPath()
		}
		if err := export.Save(logger, path, b.Tracker.Habits, b.Tracker.Grid()); err != nil {
			logging.Error(logger, "failed to export", err, "path", path)
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Exported week of %s to %s\n", habit.WeekLabel(b.Week), path)
		return err
	})
}

func runHabitsYear(cmd *cobra.Command, _ []string) error {
	return useBook(cmd, func(ctx context.Context, b *habit.Book) error {
		progress, err := b.Yearly(ctx, time.Now())
		if err != nil {
			return err
		}
		return report.YearChartWithColor(cmd.OutOrStdout(), progress, 0, yearColor)
	})
}

type bookAction func(ctx context.Context, b *habit.Book, args []string) (string, error)

func withBook(action bookAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return useBook(cmd, func(ctx context.Context, b *habit.Book) error {
			msg, err := action(ctx, b, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
			return err
		})
	}
}

// useBook opens the logged-in code's book for --week, or the current week.
func useBook(cmd *cobra.Command, fn func(ctx context.Context, b *habit.Book) error) error {
	s, err := session.Load(config.DefaultSessionPath())
	if err != nil {
		return err
	}
	if !s.LoggedIn() {
		return fmt.Errorf("not logged in: run studykit login --code CODE or studykit signup --code CODE")
	}
	week, err := habit.ParseWeek(weekFlag(cmd), time.Now())
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	book, err := habit.OpenBook(cmd.Context(), st, s.CodeID, week)
	if err != nil {
		return err
	}
	return fn(cmd.Context(), book)
}

func weekFlag(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("week"); f != nil {
		return f.Value.String()
	}
	return ""
}

func habitIndex(b *habit.Book, name string) (int, error) {
	name = strings.TrimSpace(name)
	i := b.Tracker.Index(name)
	if i < 0 {
		return 0, fmt.Errorf("habit %q not found", name)
	}
	return i, nil
}

func exportPath() string {
	return config.DefaultExportPath(fileCfg.ExportDir())
}

var _ habit.Repository = (*store.Store)(nil)
