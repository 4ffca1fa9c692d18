// Package logging provides the node's structured logger. It wraps
// go.uber.org/zap (already pulled in transitively through libp2p, which uses
// zap for all of its own subsystem logging) rather than hand-rolling a
// log/slog shim.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	global *zap.Logger
)

// New returns the global production zap logger named after component, the
// same way libp2p's own loggers are scoped per subsystem.
func New(component string) *zap.Logger {
	return Global().Named(component)
}

// Global returns the process-wide base logger, building it on first use.
func Global() *zap.Logger {
	once.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		global = l
	})
	return global
}

// Sync flushes any buffered log entries; call before process exit.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
