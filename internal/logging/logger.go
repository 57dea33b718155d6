package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders log severities; a logger drops anything below its level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a level name such as "debug" or "WARN" to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Logger writes timestamped, prefixed lines. Loggers made with WithPrefix
// share their parent's lock and output, so lines never interleave.
type Logger struct {
	mu     *sync.Mutex
	level  Level
	output io.Writer
	prefix string
}

func NewLogger(level Level, output io.Writer, prefix string) *Logger {
	return &Logger{
		mu:     &sync.Mutex{},
		level:  level,
		output: output,
		prefix: joinPrefix("", prefix),
	}
}

// NewDefaultLogger derives a logger from the process-wide one (stderr,
// level set by SetLevel).
func NewDefaultLogger(prefix string) *Logger {
	return root.WithPrefix(prefix)
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLogger(LevelError+1, io.Discard, "")
}

func joinPrefix(parent, prefix string) string {
	switch {
	case prefix == "":
		return parent
	case parent == "":
		return prefix + ": "
	default:
		return parent + " " + prefix + ": "
	}
}

func (l *Logger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	line := fmt.Sprintf("[%s] %s %s%s\n",
		time.Now().Format("2006-01-02 15:04:05"), level, l.prefix, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.output, line)
}

func (l *Logger) Debug(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.logf(LevelError, format, args...) }

// WithPrefix returns a child logger whose prefix extends this one's
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		mu:     l.mu,
		level:  l.level,
		output: l.output,
		prefix: joinPrefix(strings.TrimSuffix(l.prefix, ": "), prefix),
	}
}

var root = NewLogger(LevelInfo, os.Stderr, "")

// SetLevel changes the level of the process-wide logger. Loggers derived
// afterwards inherit it.
func SetLevel(level Level) {
	root.level = level
}
