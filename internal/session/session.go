// Package session keeps the logged-in personal code between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/teamdino/studykit/internal/model"
)

// MinCodeLength is the shortest accepted personal code.
const MinCodeLength = 4

var ErrCodeTooShort = fmt.Errorf("personal code must be at least %d characters", MinCodeLength)

// Session is the persisted login state.
type Session struct {
	CodeID string `toml:"code-id"`
	Code   string `toml:"code"`
	// Week is the last selected week start (YYYY-MM-DD). Empty means the current week.
	Week string `toml:"week,omitempty"`
}

// LoggedIn reports whether a personal code is active.
func (s Session) LoggedIn() bool {
	return s.CodeID != ""
}

// CodeStore looks up and registers personal codes.
type CodeStore interface {
	FindCode(ctx context.Context, code string) (model.UserCode, error)
	CreateCode(ctx context.Context, code string) (model.UserCode, error)
}

type codeInput struct {
	Code string `validate:"required,min=4"`
}

var validate = validator.New()

// NormalizeCode trims a code and checks its length.
func NormalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if err := validate.Struct(codeInput{Code: code}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return "", ErrCodeTooShort
		}
		return "", fmt.Errorf("invalid code: %w", err)
	}
	return code, nil
}

// Login opens a session for an existing code.
func Login(ctx context.Context, codes CodeStore, code string) (Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Session{}, ErrCodeTooShort
	}
	uc, err := codes.FindCode(ctx, code)
	if err != nil {
		return Session{}, err
	}
	return Session{CodeID: uc.ID, Code: uc.Code}, nil
}

// Signup registers a new code and opens a session for it.
func Signup(ctx context.Context, codes CodeStore, code string) (Session, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return Session{}, err
	}
	uc, err := codes.CreateCode(ctx, code)
	if err != nil {
		return Session{}, err
	}
	return Session{CodeID: uc.ID, Code: uc.Code}, nil
}

// Load reads the session file. A missing file yields a logged-out session.
func Load(path string) (Session, error) {
	var s Session
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	return s, nil
}

// Save writes the session file.
func Save(path string, s Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close on encode failure.
			_ = cerr
		}
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return f.Close()
}

// Clear removes the session file.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
