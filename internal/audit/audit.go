// Package audit provides the security side of the data layer: the
// append-only action log, upload content screening, and safe file naming.
package audit

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"clindb/internal/logutil"
)

// Logger is the once-initialized audit-log handle. Open it at startup,
// pass it to collaborators, and Close it on teardown. LogAccess never
// fails: audit logging is advisory and must not abort the operation that
// triggered it.
type Logger struct {
	logger *slog.Logger
	file   *os.File
	diag   *slog.Logger
}

// Open creates the audit log at path, creating parent directories as
// needed. diag receives internal diagnostics (e.g. a failed append) and
// may be nil.
func Open(path string, diag *slog.Logger) (*Logger, error) {
	if diag == nil {
		diag = logutil.NewDiscardLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	logger, file, err := logutil.NewFileLogger(path, slog.LevelInfo)
	if err != nil {
		return nil, err
	}

	return &Logger{logger: logger, file: file, diag: diag}, nil
}

// LogAccess appends one action record to the log. A nil receiver is a
// no-op, so components can run without auditing in tests.
func (l *Logger) LogAccess(action, details string) {
	if l == nil {
		return
	}
	l.logger.Info("access",
		"id", NewEventID(),
		"action", action,
		"details", details,
	)
}

// Close releases the underlying log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		l.diag.Warn("audit log close failed", "error", err)
		return err
	}
	return nil
}

// NewEventID returns a unique id for one audit event.
func NewEventID() string {
	return uuid.New().String()
}
