// Package report carries advisory messages out of the filter packages.
//
// A Sink receives human-readable notes about fallback paths the filters took
// (a border constant clamped to the sample range, a worker count reduced to
// the number of rows). Sinks are never used for control flow: every failure is
// still returned as an error, and a nil Sink simply drops messages.
//
// Components receive their Sink explicitly through options. For binaries that
// want one process-wide sink, Once holds a sink that can be assigned exactly
// once at startup and is read-only afterwards.
package report

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Sink receives advisory messages.
type Sink interface {
	Report(message string)
}

// Func adapts a plain function to Sink.
type Func func(message string)

// Report calls f(message).
func (f Func) Report(message string) { f(message) }

// Nop is a Sink that discards everything.
var Nop Sink = Func(func(string) {})

// Reportf formats a message and sends it to s. A nil s is a no-op.
func Reportf(s Sink, format string, args ...any) {
	if s == nil {
		return
	}
	s.Report(fmt.Sprintf(format, args...))
}

type zapSink struct {
	log *zap.Logger
}

// Zap returns a Sink that writes each message as a warning on l.
func Zap(l *zap.Logger) Sink {
	if l == nil {
		return Nop
	}
	return zapSink{log: l.WithOptions(zap.AddCallerSkip(1))}
}

func (z zapSink) Report(message string) {
	z.log.Warn(message, zap.String("component", "filters"))
}

// ErrAlreadySet is returned by Once.Set after the first assignment.
var ErrAlreadySet = errors.New("report sink already set")

// Once holds a sink that may be assigned a single time.
// The zero value is ready to use and reports to nothing.
type Once struct {
	mu   sync.RWMutex
	sink Sink
	set  bool
}

// Set assigns the sink. Only the first call succeeds.
func (o *Once) Set(s Sink) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.set {
		return ErrAlreadySet
	}
	o.sink = s
	o.set = true
	return nil
}

// Sink returns the assigned sink, or Nop if none was set.
func (o *Once) Sink() Sink {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.sink == nil {
		return Nop
	}
	return o.sink
}

// Report forwards to the assigned sink, so a *Once can itself be injected
// wherever a Sink is expected.
func (o *Once) Report(message string) {
	o.Sink().Report(message)
}
