// Package logging holds the logger shared by every artprep package.
//
// By default nothing is logged. Programs that want diagnostics call
// SetLogger once at startup:
//
//	logger, _ := zap.NewDevelopment()
//	logging.SetLogger(logger)
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger replaces the shared logger. Passing nil restores the silent
// default. Safe for concurrent use.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// L returns the current logger.
func L() *zap.Logger {
	return loggerPtr.Load()
}

// Named returns the current logger scoped to one package or stage.
func Named(name string) *zap.Logger {
	return L().Named(name)
}
