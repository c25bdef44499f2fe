// Package logging builds the logfmt logger shared by commands.
package logging

import (
	"io"
	"os"

	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// callerDepth skips go-kit's frames (valuer, bindValues, context, level
// filter, level prefix context) and the helper below, so caller names the
// code that called Error or Debug.
const callerDepth = 6

// New returns a logfmt logger writing to w with timestamp and caller fields.
// Debug lines are dropped unless verbose is set.
func New(w io.Writer, verbose bool) gokitlog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := gokitlog.NewLogfmtLogger(gokitlog.NewSyncWriter(w))
	logger = gokitlog.With(logger, "ts", gokitlog.DefaultTimestampUTC, "caller", gokitlog.Caller(callerDepth))
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

// Nop returns a logger that discards everything.
func Nop() gokitlog.Logger {
	return gokitlog.NewNopLogger()
}

// Close closes c and logs a failure at debug level. It is used where a
// close error cannot change the outcome.
func Close(logger gokitlog.Logger, c io.Closer, what string) {
	if cerr := c.Close(); cerr != nil {
		Debug(logger, "failed to close "+what, "err", cerr)
	}
}

// Error logs msg at error level with err and extra key/values.
func Error(logger gokitlog.Logger, msg string, err error, keyvals ...any) {
	if logger == nil {
		return
	}
	kv := append([]any{"msg", msg, "err", err}, keyvals...)
	// Best-effort logging.
	_ = level.Error(logger).Log(kv...)
}

// Debug logs msg at debug level.
func Debug(logger gokitlog.Logger, msg string, keyvals ...any) {
	if logger == nil {
		return
	}
	kv := append([]any{"msg", msg}, keyvals...)
	_ = level.Debug(logger).Log(kv...)
}
