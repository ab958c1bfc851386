package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu           sync.RWMutex
	currentLevel = LevelInfo
	output       io.Writer = os.Stdout
	logger                 = newBackend(output, false, LevelInfo)
	closer       io.Closer
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) hclog() hclog.Level {
	switch l {
	case LevelDebug:
		return hclog.Debug
	case LevelWarn:
		return hclog.Warn
	case LevelError:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// ParseLevel converts a case-insensitive level name. Unknown names return false.
func ParseLevel(level string) (Level, bool) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	}
	return LevelInfo, false
}

func newBackend(w io.Writer, json bool, level Level) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "docroots",
		Level:      level.hclog(),
		Output:     w,
		JSONFormat: json,
		TimeFormat: "2006-01-02 15:04:05",
	})
}

// SetLevel changes the minimum level. Unknown names are ignored.
func SetLevel(level string) {
	lvl, ok := ParseLevel(level)
	if !ok {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	currentLevel = lvl
	logger.SetLevel(lvl.hclog())
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Configure replaces the backend.
//
// format is "text" or "json". output is "stdout", "stderr" or a file path
// (opened for append). Empty values keep text on stdout.
func Configure(level, format, out string) error {
	var w io.Writer
	var c io.Closer

	switch strings.ToLower(out) {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log output %q: %w", out, err)
		}
		w, c = f, f
	}

	var json bool
	switch strings.ToLower(format) {
	case "", "text":
	case "json":
		json = true
	default:
		if c != nil {
			_ = c.Close()
		}
		return fmt.Errorf("unknown log format %q", format)
	}

	lvl, ok := ParseLevel(level)
	if !ok && level != "" {
		if c != nil {
			_ = c.Close()
		}
		return fmt.Errorf("unknown log level %q", level)
	}

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	currentLevel = lvl
	output = w
	closer = c
	logger = newBackend(w, json, lvl)
	return nil
}

// SetOutput redirects the current backend to w, keeping level and text format.
// Used by tests to capture log lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger = newBackend(w, false, currentLevel)
}

// Named returns an hclog.Logger sharing the current backend, for libraries
// that accept one directly.
func Named(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.Named(name)
}

func log(level Level, format string, v ...any) {
	mu.RLock()
	l := logger
	enabled := level >= currentLevel
	mu.RUnlock()

	if !enabled {
		return
	}

	message := fmt.Sprintf(format, v...)
	switch level {
	case LevelDebug:
		l.Debug(message)
	case LevelInfo:
		l.Info(message)
	case LevelWarn:
		l.Warn(message)
	case LevelError:
		l.Error(message)
	}
}

func Debug(format string, v ...any) {
	log(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	log(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	log(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	log(LevelError, format, v...)
}
