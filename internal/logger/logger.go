// Package logger writes leveled diagnostic lines to a console stream.
//
// Lines look like "[15:04:05] [WARN] message". Level tags are colored when
// the destination is a terminal and NO_COLOR is unset.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is a log severity.
type Level int

// Levels in increasing severity.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelTrace || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ValidLevels lists the accepted --log-level values.
func ValidLevels() []string {
	return []string{"trace", "debug", "info", "warn", "error"}
}

// ParseLevel converts a level name. Empty means warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "", "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelWarn, fmt.Errorf("unknown log level %q (valid: %s)", s, strings.Join(ValidLevels(), ", "))
	}
}

// ConsoleLogger logs to a writer with timestamps. Safe for concurrent use.
// A nil *ConsoleLogger discards everything.
type ConsoleLogger struct {
	writer      io.Writer
	level       Level
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// New creates a ConsoleLogger writing messages at or above level to w.
func New(w io.Writer, level Level) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		level:       level,
		colorOutput: isTerminal(w),
		now:         time.Now,
	}
}

// Discard returns a logger that writes nothing.
func Discard() *ConsoleLogger {
	return New(io.Discard, LevelError+1)
}

// isTerminal reports whether w is a terminal that should get colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Enabled reports whether messages at l would be written.
func (cl *ConsoleLogger) Enabled(l Level) bool {
	return cl != nil && cl.writer != nil && l >= cl.level
}

// Tracef logs at trace level.
func (cl *ConsoleLogger) Tracef(format string, args ...any) { cl.logf(LevelTrace, format, args...) }

// Debugf logs at debug level.
func (cl *ConsoleLogger) Debugf(format string, args ...any) { cl.logf(LevelDebug, format, args...) }

// Infof logs at info level.
func (cl *ConsoleLogger) Infof(format string, args ...any) { cl.logf(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (cl *ConsoleLogger) Warnf(format string, args ...any) { cl.logf(LevelWarn, format, args...) }

// Errorf logs at error level.
func (cl *ConsoleLogger) Errorf(format string, args ...any) { cl.logf(LevelError, format, args...) }

func (cl *ConsoleLogger) logf(level Level, format string, args ...any) {
	if !cl.Enabled(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	tag := level.String()
	if cl.colorOutput {
		c := levelColor(level)
		c.EnableColor()
		tag = c.Sprint(tag)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", cl.now().Format("15:04:05"), tag, fmt.Sprintf(format, args...))
}

func levelColor(l Level) *color.Color {
	switch l {
	case LevelTrace:
		return color.New(color.FgHiBlack)
	case LevelDebug:
		return color.New(color.FgCyan)
	case LevelInfo:
		return color.New(color.FgBlue)
	case LevelWarn:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
