package fstkit

import (
	"log/slog"
	"sync/atomic"
)

// The package reports contract violations (the conditions that set the
// Error property bit) through a structured logger in addition to the
// bit itself, since query methods cannot return errors. The default is
// slog.Default.
var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger replaces the logger used for Error-bit diagnostics.
// Passing nil restores slog.Default.
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logError(msg string, args ...any) {
	l := pkgLogger.Load()
	if l == nil {
		l = slog.Default()
	}
	l.Error(msg, args...)
}
