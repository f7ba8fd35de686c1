package logging

// Structured logging for lingo

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelVerbose
	LogLevelDebug
)

// ParseLevel maps a level name from config or flags to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent", "off", "none":
		return LogLevelSilent, nil
	case "error":
		return LogLevelError, nil
	case "", "info":
		return LogLevelInfo, nil
	case "verbose":
		return LogLevelVerbose, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

func (l LogLevel) String() string {
	switch l {
	case LogLevelSilent:
		return "silent"
	case LogLevelError:
		return "error"
	case LogLevelInfo:
		return "info"
	case LogLevelVerbose:
		return "verbose"
	case LogLevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Logger provides structured logging
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	format  string
	file    *os.File
	fileLog *zap.SugaredLogger
	stdout  *zap.SugaredLogger
	stderr  *zap.SugaredLogger
}

// NewLogger creates a new logger writing to the process stdout/stderr.
func NewLogger(level LogLevel, logFile string) (*Logger, error) {
	return NewLoggerWithOptions(level, logFile, "text", os.Stdout, os.Stderr)
}

// NewLoggerWithOptions creates a logger with an explicit file format ("text" or
// "json") and console writers.
func NewLoggerWithOptions(level LogLevel, logFile, format string, stdout, stderr io.Writer) (*Logger, error) {
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	l := &Logger{
		level:  level,
		format: format,
		stdout: newConsole(stdout),
		stderr: newConsole(stderr),
	}

	if logFile != "" {
		file, err := os.Create(logFile)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.file = file
		l.fileLog = newFileLogger(file, format)
	}

	return l, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{level: LogLevelSilent, format: "text"}
}

func newConsole(w io.Writer) *zap.SugaredLogger {
	if w == nil {
		return nil
	}
	cfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core).Sugar()
}

func newFileLogger(w io.Writer, format string) *zap.SugaredLogger {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout(time.RFC3339),
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	var enc zapcore.Encoder
	if format == "json" {
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel)).Sugar()
}

// Close closes the logger and flushes all data
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		_ = l.fileLog.Sync()
	}
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.fileLog = nil
		return err
	}
	return nil
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	if l.GetLevel() >= LogLevelError {
		l.write("ERROR: "+fmt.Sprintf(format, v...), true)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	if l.GetLevel() >= LogLevelInfo {
		l.write("INFO: "+fmt.Sprintf(format, v...), false)
	}
}

// Verbose logs a verbose message
func (l *Logger) Verbose(format string, v ...interface{}) {
	if l.GetLevel() >= LogLevelVerbose {
		l.write("VERBOSE: "+fmt.Sprintf(format, v...), false)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.GetLevel() >= LogLevelDebug {
		l.write("DEBUG: "+fmt.Sprintf(format, v...), false)
	}
}

// write writes a message to the appropriate outputs
func (l *Logger) write(msg string, isError bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		l.fileLog.Info(msg)
	}

	// Errors always reach stderr; everything else only at verbose and above.
	if isError {
		if l.stderr != nil {
			l.stderr.Info(msg)
		}
	} else if l.level >= LogLevelVerbose && l.stdout != nil {
		l.stdout.Info(msg)
	}
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LogRequest logs one AJAX or submission round trip.
func (l *Logger) LogRequest(method, url string, status int, elapsed time.Duration, err error) {
	var statusStr string
	if err == nil {
		statusStr = "SUCCESS"
	} else {
		statusStr = "FAILED"
	}

	var errStr string
	if err != nil {
		errStr = fmt.Sprintf(" - error: %v", err)
	}

	msg := fmt.Sprintf("%s %s %s (status: %d, RTT: %.3fms)%s",
		statusStr, strings.ToUpper(method), url, status, float64(elapsed.Microseconds())/1000.0, errStr)

	if err == nil {
		l.Verbose("%s", msg)
	} else {
		l.Info("%s", msg)
	}
}

// LogTransition logs a wizard step change.
func (l *Logger) LogTransition(kind, from, to string) {
	if from == "" {
		from = "-"
	}
	l.Debug("%s %s -> %s", kind, from, to)
}

// LogStartup logs startup information
func (l *Logger) LogStartup(definition, baseURL string, steps int, configPath string) {
	l.Info("Starting lingo wizard")
	l.Verbose("  Definition: %s", definition)
	l.Verbose("  Base URL: %s", baseURL)
	l.Verbose("  Steps: %d", steps)
	l.Verbose("  Config: %s", configPath)
}
