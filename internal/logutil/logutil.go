// Package logutil provides the small tagged-prefix loggers used across the
// scanning engine. Failures the engine absorbs rather than propagates
// (read failures, unsupported-predicate fallbacks, debug-mode validation
// mismatches) are logged here instead of returned: they must never abort
// a scan.
package logutil

import (
	"io"
	"log"
	"os"
)

// Logger is a minimal tagged wrapper around the standard library logger,
// giving every package the same prefix/flag conventions instead of
// scattering ad-hoc fmt.Fprintf(os.Stderr, "tag: ...") calls.
type Logger struct {
	l *log.Logger
}

// New returns a Logger that writes to w with the given tag, e.g. "scan:".
func New(w io.Writer, tag string) *Logger {
	return &Logger{l: log.New(w, tag+" ", log.Ltime)}
}

// Default returns a Logger writing to os.Stderr with the given tag.
func Default(tag string) *Logger {
	return New(os.Stderr, tag)
}

func (l *Logger) Printf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.l.Printf(format, args...)
}

func (l *Logger) Println(args ...interface{}) {
	if l == nil {
		return
	}
	l.l.Println(args...)
}
