package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/teamdino/studykit/internal/habit"
)

func TestHabitIndexTrimsName(t *testing.T) {
	b, err := habit.OpenBook(context.Background(), nil, "", time.Now())
	if err != nil {
		t.Fatalf("open book: %v", err)
	}
	if err := b.Add(context.Background(), "Read"); err != nil {
		t.Fatalf("add: %v", err)
	}
	i, err := habitIndex(b, "  Read ")
	if err != nil || i != 0 {
		t.Fatalf("expected index 0, got %d (%v)", i, err)
	}
	if _, err := habitIndex(b, "Run"); err == nil || !strings.Contains(err.Error(), `"Run" not found`) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGradesCmdListsLabels(t *testing.T) {
	cases := map[string]string{
		"le":   "Learning Engagement",
		"S2":   "Sessional 2",
		"clad": "CLAD",
	}
	for arg, title := range cases {
		var buf bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&buf)
		if err := runGradesCmd(cmd, []string{arg}); err != nil {
			t.Fatalf("%s: %v", arg, err)
		}
		if !strings.HasPrefix(buf.String(), title+"\n") {
			t.Fatalf("%s: unexpected output:\n%s", arg, buf.String())
		}
	}
	if err := runGradesCmd(&cobra.Command{}, []string{"lab"}); err == nil {
		t.Fatalf("expected error for unknown assessment")
	}
}
