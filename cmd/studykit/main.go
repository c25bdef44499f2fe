// Package main provides the CLI entrypoint for studykit.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	gokitlog "github.com/go-kit/log"
	"github.com/spf13/cobra"

	"github.com/teamdino/studykit/internal/config"
	"github.com/teamdino/studykit/internal/grade"
	"github.com/teamdino/studykit/internal/logging"
	"github.com/teamdino/studykit/internal/model"
	"github.com/teamdino/studykit/internal/report"
	"github.com/teamdino/studykit/internal/session"
	"github.com/teamdino/studykit/internal/sheet"
	"github.com/teamdino/studykit/internal/store"
)

var (
	verbose bool
	dbPath  string
	logger  gokitlog.Logger = logging.Nop()
	fileCfg config.FileConfig

	calcPrevCGPA    float64
	calcPrevCredits int
	calcFormula     bool

	accountCode string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "studykit",
		Short:             "Grade calculator and weekly habit tracker",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default from config or XDG data dir)")

	rootCmd.AddCommand(newCalcCmd())
	rootCmd.AddCommand(newGradesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newHabitsCmd())

	return rootCmd
}

func setup(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	logger = logging.New(os.Stderr, verbose)
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg
	return nil
}

func newCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc SHEET",
		Short: "Compute course grades, SGPA and CGPA from a course sheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runCalcCmd,
	}
	cmd.Flags().Float64Var(&calcPrevCGPA, "prev-cgpa", 0, "CGPA before this semester (0-10)")
	cmd.Flags().IntVar(&calcPrevCredits, "prev-credits", 0, "credits earned before this semester")
	cmd.Flags().BoolVar(&calcFormula, "formula", false, "show the WGP formula for each course")
	return cmd
}

func runCalcCmd(cmd *cobra.Command, args []string) error {
	applyFloatConfig(cmd, "prev-cgpa", &calcPrevCGPA, fileCfg.Calc.PreviousCGPA)
	applyIntConfig(cmd, "prev-credits", &calcPrevCredits, fileCfg.Calc.PreviousCredits)
	applyBoolConfig(cmd, "formula", &calcFormula, fileCfg.Calc.Formula)

	courses, err := sheet.Load(logger, args[0])
	if err != nil {
		return err
	}
	logging.Debug(logger, "loaded sheet", "path", args[0], "courses", len(courses))

	out := cmd.OutOrStdout()
	if err := report.Courses(out, courses, calcFormula); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	sem, ok := grade.SGPA(courses)
	var cum *grade.CumulativeResult
	hasPrev := isSet(cmd, "prev-cgpa", fileCfg.Calc.PreviousCGPA != nil) || isSet(cmd, "prev-credits", fileCfg.Calc.PreviousCredits != nil)
	if ok && hasPrev {
		res, err := grade.Cumulative(sem, grade.PreviousRecord{CGPA: calcPrevCGPA, Credits: calcPrevCredits})
		if err != nil {
			return err
		}
		cum = &res
	}
	if err := report.Summary(out, sem, ok, cum); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func isSet(cmd *cobra.Command, flag string, configured bool) bool {
	return cmd.Flags().Changed(flag) || configured
}

func newGradesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grades [s1|s2|le|clad]",
		Short: "Show the grade point chart, or the labels of one assessment",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGradesCmd,
	}
}

func runGradesCmd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		return report.GradeChart(out)
	}
	if strings.EqualFold(strings.TrimSpace(args[0]), "clad") {
		return report.LabelChart(out, "CLAD", grade.CLADOptions())
	}
	kind, ok := model.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown assessment %q (use s1, s2, le or clad)", args[0])
	}
	return report.LabelChart(out, kind.Name(), grade.Options(kind))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Use an existing personal code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAccount(cmd, session.Login, "Logged in as %s\n")
		},
	}
	cmd.Flags().StringVar(&accountCode, "code", "", "personal code")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func newSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new personal code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAccount(cmd, session.Signup, "Created code %s and logged in\n")
		},
	}
	cmd.Flags().StringVar(&accountCode, "code", "", fmt.Sprintf("personal code (at least %d characters)", session.MinCodeLength))
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

type accountFunc func(ctx context.Context, codes session.CodeStore, code string) (session.Session, error)

func runAccount(cmd *cobra.Command, open accountFunc, done string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	s, err := open(cmd.Context(), st, accountCode)
	switch {
	case errors.Is(err, store.ErrCodeNotFound):
		return fmt.Errorf("code %q not found; create it with: studykit signup --code %s", strings.TrimSpace(accountCode), strings.TrimSpace(accountCode))
	case errors.Is(err, store.ErrCodeTaken):
		return fmt.Errorf("code %q is already taken; log in with: studykit login --code %s", strings.TrimSpace(accountCode), strings.TrimSpace(accountCode))
	case err != nil:
		return err
	}
	if err := session.Save(config.DefaultSessionPath(), s); err != nil {
		return err
	}
	logging.Debug(logger, "session opened", "code_id", s.CodeID)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), done, s.Code)
	return err
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current personal code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := session.Clear(config.DefaultSessionPath()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current personal code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := session.Load(config.DefaultSessionPath())
			if err != nil {
				return err
			}
			if !s.LoggedIn() {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in (temporary mode)")
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.Code)
			return err
		},
	}
}

func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		path = fileCfg.DBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logging.Debug(logger, "opened store", "path", path)
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logging.Error(logger, "failed to close db", cerr)
	}
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# studykit configuration
# Uncomment a value to enable it. CLI flags override config values.

[calc]
# previous-cgpa = 8.0     # CGPA before this semester (0-10)
# previous-credits = 60   # Credits before this semester
# formula = false         # Show the WGP formula for each course

[habits]
# export-dir = "~/Documents"   # Where habit workbooks go (default: current dir, file %s)

[store]
# path = %q
`, "habit-tracker.xlsx", config.DefaultDBPath())
}
