package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level. Unknown values map to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Format selects how entries are written.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat converts "json" to FormatJSON; anything else is text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level  // Minimum log level
	Format     Format // Line format
	FilePath   string // Path to log file, empty disables file output
	MaxSize    int64  // Max size in bytes before rotation
	MaxAge     int    // Max age in days before rotation
	MaxBackups int    // Max number of rotated files kept
	Console    bool   // Mirror entries to stderr

	// Output replaces file and console writers when set. Used by tests.
	Output io.Writer
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Level:      INFO,
		FilePath:   filepath.Join(home, ".jera", "logs", "jera.log"),
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // stderr would corrupt the TUI
	}
}

// Logger writes leveled entries to a rotating file and optional console.
type Logger struct {
	core   *core
	fields []Field
}

// core is shared between a logger and the children made by WithFields.
type core struct {
	mu      sync.Mutex
	config  Config
	file    *os.File
	writers []io.Writer
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Init installs the global logger. Calling it again replaces the previous one.
func Init(config Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	globalMu.Lock()
	old := globalLogger
	globalLogger = l
	globalMu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	c := &core{config: config}

	if config.Output != nil {
		c.writers = []io.Writer{config.Output}
		return &Logger{core: c}, nil
	}

	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		if err := c.openFile(); err != nil {
			return nil, err
		}
		if err := c.rotateIfNeeded(); err != nil {
			return nil, err
		}
	}
	c.resetWriters()

	return &Logger{core: c}, nil
}

func (c *core) openFile() error {
	file, err := os.OpenFile(c.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	c.file = file
	return nil
}

func (c *core) resetWriters() {
	c.writers = c.writers[:0]
	if c.file != nil {
		c.writers = append(c.writers, c.file)
	}
	if c.config.Console {
		c.writers = append(c.writers, os.Stderr)
	}
}

// rotateIfNeeded must be called with mu held (or before the logger is shared).
func (c *core) rotateIfNeeded() error {
	if c.file == nil {
		return nil
	}

	info, err := c.file.Stat()
	if err != nil {
		return err
	}

	tooBig := c.config.MaxSize > 0 && info.Size() >= c.config.MaxSize
	tooOld := c.config.MaxAge > 0 && info.Size() > 0 &&
		time.Since(info.ModTime()) > time.Duration(c.config.MaxAge)*24*time.Hour
	if !tooBig && !tooOld {
		return nil
	}
	return c.rotate()
}

func (c *core) rotate() error {
	_ = c.file.Close()
	c.file = nil

	path := c.config.FilePath
	for i := c.config.MaxBackups - 1; i >= 1; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}
	if c.config.MaxBackups > 0 {
		if err := os.Rename(path, path+".1"); err != nil && !os.IsNotExist(err) {
			return err
		}
	} else {
		_ = os.Remove(path)
	}

	if err := c.openFile(); err != nil {
		return err
	}
	c.resetWriters()
	return nil
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	c := l.core
	if level < c.config.Level {
		return
	}

	_, file, line, ok := runtime.Caller(3)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	var entry string
	if c.config.Format == FormatJSON {
		entry = formatJSON(time.Now(), level, caller, msg, all)
	} else {
		entry = formatText(time.Now(), level, caller, msg, all)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rotateIfNeeded()
	for _, w := range c.writers {
		_, _ = io.WriteString(w, entry)
	}
}

func formatText(ts time.Time, level Level, caller, msg string, fields []Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s: %s", ts.Format("2006-01-02 15:04:05.000"), level, caller, msg)
	if len(fields) > 0 {
		b.WriteString(" |")
		for _, f := range fields {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func formatJSON(ts time.Time, level Level, caller, msg string, fields []Field) string {
	entry := make(map[string]any, len(fields)+4)
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			entry[f.Key] = err.Error()
			continue
		}
		entry[f.Key] = f.Value
	}
	entry["ts"] = ts.Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["caller"] = caller
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","msg":"log marshal failed: %s"}`+"\n", err)
	}
	return string(data) + "\n"
}

// WithFields creates a child logger with preset fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	preset := make([]Field, 0, len(l.fields)+len(fields))
	preset = append(preset, l.fields...)
	preset = append(preset, fields...)
	return &Logger{core: l.core, fields: preset}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) { l.entry(DEBUG, msg, fields) }

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) { l.entry(INFO, msg, fields) }

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) { l.entry(WARN, msg, fields) }

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) { l.entry(ERROR, msg, fields) }

// entry keeps the caller depth identical for methods and package functions.
func (l *Logger) entry(level Level, msg string, fields []Field) {
	if l == nil {
		return
	}
	l.log(level, msg, fields)
}

// Close closes the log file
func (l *Logger) Close() error {
	c := l.core
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file != nil {
		err := c.file.Close()
		c.file = nil
		c.resetWriters()
		return err
	}
	return nil
}

func global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) { global().entry(DEBUG, msg, fields) }

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) { global().entry(INFO, msg, fields) }

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) { global().entry(WARN, msg, fields) }

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) { global().entry(ERROR, msg, fields) }

// WithFields returns a child of the global logger, or nil before Init.
// A nil *Logger is safe to call.
func WithFields(fields ...Field) *Logger {
	if l := global(); l != nil {
		return l.WithFields(fields...)
	}
	return nil
}

// Close closes the global logger
func Close() error {
	if l := global(); l != nil {
		return l.Close()
	}
	return nil
}

// GetConfig returns the current logger configuration
func GetConfig() Config {
	if l := global(); l != nil {
		return l.core.config
	}
	return DefaultConfig()
}
