// Package logging threads a logger handle through the executor and hooks
// instead of mutating a process-wide logger (§9: "No global logger").
package logging

import "go.uber.org/zap"

// Sink is the minimal logging capability the core needs.
type Sink interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
}

// zapSink adapts a *zap.SugaredLogger to Sink.
type zapSink struct {
	l *zap.SugaredLogger
}

// NewZap wraps a *zap.Logger as a Sink.
func NewZap(l *zap.Logger) Sink {
	return &zapSink{l: l.Sugar()}
}

func (z *zapSink) Debug(msg string, fields ...any) { z.l.Debugw(msg, fields...) }
func (z *zapSink) Info(msg string, fields ...any)  { z.l.Infow(msg, fields...) }
func (z *zapSink) Warn(msg string, fields ...any)  { z.l.Warnw(msg, fields...) }
func (z *zapSink) Error(msg string, fields ...any) { z.l.Errorw(msg, fields...) }

// noop discards everything; useful as a default in tests and for callers
// that don't care about logging.
type noop struct{}

// NewNoop returns a Sink that discards all messages.
func NewNoop() Sink { return noop{} }

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}
