package logging

import (
	"github.com/sirupsen/logrus"
)

// LogrusAdapter adapts logrus.Logger to implement our Logger interface.
// This keeps the rest of the codebase decoupled from the underlying
// logging implementation.
type LogrusAdapter struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// NewLogrusAdapter creates a Logger backed by logrus with the given level
// ("debug", "info", "warn", "error") and format ("text" or "json").
func NewLogrusAdapter(level, format string) Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return &LogrusAdapter{
		logger: logger,
		entry:  logrus.NewEntry(logger),
	}
}

// NewLogrusAdapterFromLogger wraps an existing logrus.Logger.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusAdapter{
		logger: logger,
		entry:  logrus.NewEntry(logger),
	}
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Debug(msg)
}

func (l *LogrusAdapter) Info(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Info(msg)
}

func (l *LogrusAdapter) Warn(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Warn(msg)
}

func (l *LogrusAdapter) Error(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Error(msg)
}

// WithError returns a new logger with an error field attached
func (l *LogrusAdapter) WithError(err error) Logger {
	return &LogrusAdapter{
		logger: l.logger,
		entry:  l.entry.WithError(err),
	}
}

// WithField returns a new logger with a single field attached
func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return &LogrusAdapter{
		logger: l.logger,
		entry:  l.entry.WithField(key, value),
	}
}

// convertFields converts our Field slice to logrus.Fields map
func convertFields(fields []Field) logrus.Fields {
	logrusFields := make(logrus.Fields, len(fields))
	for _, field := range fields {
		logrusFields[field.Key] = field.Value
	}
	return logrusFields
}
