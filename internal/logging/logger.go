// Package logging builds the zap loggers used across the server.
//
// Loggers are created once in main and injected, usually Named after the
// component that owns them. Tests should use zaptest.NewLogger instead.
package logging

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger, or a console logger when development is set
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level.SetLevel(lvl)

	return cfg.Build()
}

// StdLogger adapts a zap logger for libraries that want a *log.Logger
func StdLogger(logger *zap.Logger, prefix string) *log.Logger {
	l := zap.NewStdLog(logger.Named(prefix))
	l.SetFlags(0)
	return l
}
