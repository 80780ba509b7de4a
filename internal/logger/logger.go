// Package logger provides logging for chatdesk.
// When verbose mode is enabled via the --verbose flag, messages are printed
// to stderr. Independently, a rotating JSON log file can be enabled so the
// TUI, which owns the terminal, still leaves a trace.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr

	fileLogger *slog.Logger
	fileSink   *lumberjack.Logger
)

// FileConfig configures the rotating log file.
type FileConfig struct {
	// Path is the log file path. Empty disables file logging.
	Path string

	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string

	// MaxSizeMB is the size at which the file is rotated (default: 10).
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep (default: 3).
	MaxBackups int

	// MaxAgeDays is the number of days to keep rotated files (default: 14).
	MaxAgeDays int
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// InitFile starts writing structured logs to cfg.Path, rotating with
// lumberjack. Calling it again replaces the previous sink.
func InitFile(cfg FileConfig) error {
	mu.Lock()
	defer mu.Unlock()

	closeFileLocked()
	if cfg.Path == "" {
		return nil
	}

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 14
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	fileSink = &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	fileLogger = slog.New(slog.NewJSONHandler(fileSink, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}))
	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeFileLocked()
}

// closeFileLocked closes the file sink (caller must hold lock).
func closeFileLocked() error {
	fileLogger = nil
	if fileSink == nil {
		return nil
	}
	err := fileSink.Close()
	fileSink = nil
	return err
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(slog.LevelDebug, "[DEBUG] ", format, args)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit(slog.LevelInfo, "[INFO] ", format, args)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	emit(slog.LevelWarn, "[WARN] ", format, args)
}

// Error records an error. It is printed even when verbose mode is off.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(output, "[ERROR] %s\n", msg)
	if fileLogger != nil {
		fileLogger.Log(context.Background(), slog.LevelError, msg)
	}
}

func emit(level slog.Level, prefix, format string, args []any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose && fileLogger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if verbose {
		fmt.Fprintf(output, prefix+"%s\n", msg)
	}
	if fileLogger != nil {
		fileLogger.Log(context.Background(), level, msg)
	}
}
