// Package diagnostic provides the default ports.DiagnosticSink
// implementations. The teacher wires long-lived engines with a
// SetLogger(func(msg, level string)) callback over the standard log
// package (internal/adapters/sniffer/deauth_engine.go, internal/app/app.go);
// StdSink generalizes that callback into the ports.DiagnosticSink the core
// handler is constructed with.
package diagnostic

import (
	"fmt"
	"log"
)

// StdSink logs every diagnostic through a *log.Logger.
type StdSink struct {
	logger *log.Logger
}

// NewStdSink wraps logger, or the standard logger if logger is nil.
func NewStdSink(logger *log.Logger) *StdSink {
	if logger == nil {
		logger = log.Default()
	}
	return &StdSink{logger: logger}
}

// Emit implements ports.DiagnosticSink.
func (s *StdSink) Emit(level, msg string, fields ...any) {
	if len(fields) == 0 {
		s.logger.Printf("[%s] %s", level, msg)
		return
	}
	s.logger.Printf("[%s] %s %s", level, msg, fmt.Sprint(fields...))
}
