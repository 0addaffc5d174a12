package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger interface for dependency injection and testing
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
	SetLevel(level slog.Level)
}

// Config holds logger configuration
type Config struct {
	Level   slog.Level
	Format  Format
	Output  io.Writer
	AddTime bool
}

// Format represents the output format
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

const (
	debugFileEnv  = "STAR_SHELL_DEBUG_FILE"
	debugLevelEnv = "STAR_SHELL_DEBUG_LEVEL"

	// disabledLevel sits above every slog level so nothing is emitted.
	disabledLevel = slog.Level(1000)
)

type slogLogger struct {
	logger *slog.Logger
	config Config
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config Config) Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}

	return &slogLogger{
		logger: slog.New(newHandler(config)),
		config: config,
	}
}

func newHandler(config Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: config.Level,
	}

	if !config.AddTime {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		}
	}

	if config.Format == FormatJSON {
		return slog.NewJSONHandler(config.Output, opts)
	}
	return slog.NewTextHandler(config.Output, opts)
}

// NewDefaultLogger creates a logger with sensible defaults for CLI tools
func NewDefaultLogger() Logger {
	return NewLogger(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	})
}

// NewQuietLogger creates a logger that only shows errors
func NewQuietLogger() Logger {
	return NewLogger(Config{
		Level:  slog.LevelError,
		Format: FormatText,
		Output: os.Stderr,
	})
}

// NewVerboseLogger creates a logger that shows debug information
func NewVerboseLogger() Logger {
	return NewLogger(Config{
		Level:  slog.LevelDebug,
		Format: FormatText,
		Output: os.Stderr,
	})
}

// NewDisabledLogger creates a logger that discards all output (useful for tests)
func NewDisabledLogger() Logger {
	return NewLogger(Config{
		Level:  disabledLevel,
		Format: FormatText,
		Output: io.Discard,
	})
}

// ParseLevel maps a level name to a slog level. Unknown names yield fallback.
func ParseLevel(name string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "none":
		return disabledLevel
	default:
		return fallback
	}
}

// GetDebugFilePath returns the debug file path from STAR_SHELL_DEBUG_FILE or a temp file.
func GetDebugFilePath(defaultFileName string) string {
	debugFile := os.Getenv(debugFileEnv)
	if debugFile == "" {
		debugFile = filepath.Join(os.TempDir(), defaultFileName)
	}
	return debugFile
}

// NewFileLoggerFromEnv creates a file-based logger. The file comes from
// STAR_SHELL_DEBUG_FILE and the level from STAR_SHELL_DEBUG_LEVEL (errors only by default).
// When the file can not be opened the logger discards everything.
func NewFileLoggerFromEnv(defaultFileName string) Logger {
	level := ParseLevel(os.Getenv(debugLevelEnv), slog.LevelError)

	file, err := os.OpenFile(GetDebugFilePath(defaultFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return NewLogger(Config{Level: level, Format: FormatText, Output: io.Discard})
	}

	return NewLogger(Config{
		Level:   level,
		Format:  FormatText,
		Output:  file,
		AddTime: true,
	})
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// With returns a logger with additional attributes
func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{
		logger: l.logger.With(args...),
		config: l.config,
	}
}

// WithGroup returns a logger with a group name
func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{
		logger: l.logger.WithGroup(name),
		config: l.config,
	}
}

// SetLevel rebuilds the handler with the new level. Attributes added with
// With are not carried over.
func (l *slogLogger) SetLevel(level slog.Level) {
	l.config.Level = level
	l.logger = slog.New(newHandler(l.config))
}

var globalLogger Logger = NewDefaultLogger()

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger Logger) {
	if logger == nil {
		logger = NewDisabledLogger()
	}
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	return globalLogger
}

func Debug(msg string, args ...any) {
	globalLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	globalLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	globalLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	globalLogger.Error(msg, args...)
}

// NewComponentLogger returns the global logger tagged with a component name.
func NewComponentLogger(component string) Logger {
	return globalLogger.With("component", component)
}

// NewOperationLogger tags the global logger with component and operation.
func NewOperationLogger(component, operation string) Logger {
	return globalLogger.With(
		"component", component,
		"operation", operation,
	)
}

// NewAPILogger is used by the LLM backends.
func NewAPILogger(service string) Logger {
	return globalLogger.With(
		"component", "api",
		"service", service,
	)
}

// LogError logs err under the "error" key together with args.
func LogError(ctx context.Context, logger Logger, msg string, err error, args ...any) {
	allArgs := append(args, "error", err)
	logger.Error(msg, allArgs...)
}
