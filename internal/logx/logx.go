// Package logx configures the single process-wide structured logger used
// across the interpreter. Every component logs through this logger rather
// than fmt.Printf, with a "component" field identifying the caller.
package logx

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// Logger returns the shared process-wide logger, initializing it on first
// use with a JSON formatter (suitable for ingestion alongside the audit
// log) and a level read from NAAB_LOG_LEVEL (default "info").
func Logger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stderr)
		level, err := logrus.ParseLevel(os.Getenv("NAAB_LOG_LEVEL"))
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
	})
	return logger
}

// For returns a logger entry pre-populated with the component field, the
// form every package should use: logx.For("evaluator").WithField(...).
func For(component string) *logrus.Entry {
	return Logger().WithField("component", component)
}
