package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
)

// LogConfig represents logger configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json or text
	Output string `json:"output"` // stdout, stderr, or file path
}

// LogFields represents structured log fields
type LogFields map[string]interface{}

// Logger interface for abstraction
type Logger interface {
	Debug(msg string, fields ...LogFields)
	Info(msg string, fields ...LogFields)
	Warn(msg string, fields ...LogFields)
	Error(msg string, err error, fields ...LogFields)
	Fatal(msg string, err error, fields ...LogFields)
	WithFields(fields LogFields) Logger
	WithContext(ctx context.Context) Logger
}

// AppLogger implements Logger using logrus
type AppLogger struct {
	entry *logrus.Entry
}

// InitLogger initializes the global logger
func InitLogger(config *LogConfig) error {
	logger = logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
		logger.Warnf("Invalid log level '%s', defaulting to info", config.Level)
	}
	logger.SetLevel(level)

	switch strings.ToLower(config.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			ForceColors:     false,
		})
	default:
		return fmt.Errorf("unsupported log format: %s", config.Format)
	}

	switch strings.ToLower(config.Output) {
	case "stdout", "":
		logger.SetOutput(os.Stdout)
	case "stderr":
		logger.SetOutput(os.Stderr)
	default:
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(file)
	}

	return nil
}

// GetLogger returns a new AppLogger instance
func GetLogger() Logger {
	if logger == nil {
		log.Println("Warning: Logger not initialized, using fallback")
		InitLogger(&LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		})
	}

	return &AppLogger{
		entry: logger.WithFields(logrus.Fields{}),
	}
}

// Underlying returns the raw logrus logger for middleware that needs it.
func Underlying() *logrus.Logger {
	if logger == nil {
		GetLogger()
	}
	return logger
}

func (l *AppLogger) Debug(msg string, fields ...LogFields) {
	entry := l.entry
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields[0]))
	}
	entry.Debug(msg)
}

func (l *AppLogger) Info(msg string, fields ...LogFields) {
	entry := l.entry
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields[0]))
	}
	entry.Info(msg)
}

func (l *AppLogger) Warn(msg string, fields ...LogFields) {
	entry := l.entry
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields[0]))
	}
	entry.Warn(msg)
}

func (l *AppLogger) Error(msg string, err error, fields ...LogFields) {
	entry := l.entry
	if err != nil {
		entry = entry.WithError(err)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields[0]))
	}
	entry.Error(msg)
}

func (l *AppLogger) Fatal(msg string, err error, fields ...LogFields) {
	entry := l.entry
	if err != nil {
		entry = entry.WithError(err)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields[0]))
	}
	entry.Fatal(msg)
}

func (l *AppLogger) WithFields(fields LogFields) Logger {
	return &AppLogger{
		entry: l.entry.WithFields(logrus.Fields(fields)),
	}
}

// WithContext decorates the logger with request-scoped identifiers.
func (l *AppLogger) WithContext(ctx context.Context) Logger {
	entry := l.entry

	if requestID := GetRequestID(ctx); requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}

	if userID := GetUserID(ctx); userID != "" {
		entry = entry.WithField("user_id", userID)
	}

	if orgID := GetOrganizationID(ctx); orgID != "" {
		entry = entry.WithField("organization_id", orgID)
	}

	return &AppLogger{entry: entry}
}

// LogError logs an error with context
func LogError(ctx context.Context, msg string, err error, fields ...LogFields) {
	l := GetLogger().WithContext(ctx)
	if len(fields) > 0 {
		l = l.WithFields(fields[0])
	}
	l.Error(msg, err)
}

// LogInfo logs an info message with context
func LogInfo(ctx context.Context, msg string, fields ...LogFields) {
	l := GetLogger().WithContext(ctx)
	if len(fields) > 0 {
		l = l.WithFields(fields[0])
	}
	l.Info(msg)
}

// LogWarn logs a warning message with context
func LogWarn(ctx context.Context, msg string, fields ...LogFields) {
	l := GetLogger().WithContext(ctx)
	if len(fields) > 0 {
		l = l.WithFields(fields[0])
	}
	l.Warn(msg)
}

// Context helper functions

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val := ctx.Value("request_id"); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val := ctx.Value("user_id"); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetOrganizationID extracts the resolved organization ID from context
func GetOrganizationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val := ctx.Value("organization_id"); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
