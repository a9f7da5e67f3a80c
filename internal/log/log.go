// Package log builds the zap loggers shared by the loader and the API service.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a sugared logger named after the service. Debug selects the
// human-readable development encoder; otherwise JSON production output is used.
func New(service string, debug bool) (*zap.SugaredLogger, error) {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("can't initialize zap logger: %w", err)
	}

	return zapLogger.Named(service).Sugar(), nil
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// Sync flushes buffered entries. The error from syncing stderr/stdout is
// ignored since it is always ENOTTY/EINVAL on terminals.
func Sync(logger *zap.SugaredLogger) {
	if logger != nil {
		_ = logger.Sync()
	}
}
