// Package eventlog writes the append-only diagnostic log.
//
// Each line carries a timestamp and a level:
//
//	2026/10/18 12:00:00 INFO Added task 1: Buy milk
package eventlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Logger writes leveled lines to one destination. It satisfies task.Logger.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	close func() error
}

// New returns a logger writing to w. Close is a no-op.
func New(w io.Writer) *Logger {
	flags := log.LstdFlags | log.Lmsgprefix
	return &Logger{
		info:  log.New(w, "INFO ", flags),
		warn:  log.New(w, "WARN ", flags),
		err:   log.New(w, "ERROR ", flags),
		close: func() error { return nil },
	}
}

// Open appends to the log file at path, creating it and its directory.
func Open(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(f)
	l.close = f.Close
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

func (l *Logger) Infof(format string, args ...any) {
	l.info.Printf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.warn.Printf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.err.Printf(format, args...)
}

// Close closes the underlying file, if Open created one.
func (l *Logger) Close() error {
	return l.close()
}
