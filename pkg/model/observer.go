package model

import (
	"log/slog"
	"sync"
)

// Observer receives instrumentation callbacks from the change pipeline.
type Observer interface {
	// PropertyChanged is called once per completed change pipeline.
	PropertyChanged(typeName, name string)
	// WriteRejected is called when a write to a disposed object is dropped.
	WriteRejected(typeName, name string)
	// SequenceChanged is called for every sequence diff that is notified.
	SequenceChanged(typeName, name string, changes *ArrayChanges)
	// ExpressionRun is called before an expression property runs; the
	// returned func is called with the outcome.
	ExpressionRun(typeName, name, expression string) func(result any, err error)
}

type nopObserver struct{}

func (nopObserver) PropertyChanged(string, string)                       {}
func (nopObserver) WriteRejected(string, string)                         {}
func (nopObserver) SequenceChanged(string, string, *ArrayChanges)        {}
func (nopObserver) ExpressionRun(string, string, string) func(any, error) { return func(any, error) {} }

var (
	globalMu       sync.RWMutex
	globalObserver Observer = nopObserver{}
	globalLogger            = slog.Default().With("component", "model")
)

// SetObserver installs the package observer. nil disables instrumentation.
func SetObserver(o Observer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if o == nil {
		o = nopObserver{}
	}
	globalObserver = o
}

func currentObserver() Observer {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalObserver
}

// SetLogger replaces the package logger. nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if l == nil {
		l = slog.Default()
	}
	globalLogger = l.With("component", "model")
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}
