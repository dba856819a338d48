package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger is a file logger for tier engine activity.
type Logger struct {
	session string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
	logDir  string
}

// LogLevel represents different types of log entries.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelTrade   LogLevel = "TRADE"
	LogLevelTier    LogLevel = "TIER"
)

// NewLogger creates a new file logger for the named trading session.
func NewLogger(session string) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", session, timestamp)
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		session: session,
		logFile: file,
		logger:  log.New(file, "", 0),
		logDir:  logDir,
	}

	l.writeSessionHeader()
	return l, nil
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 TIER ENGINE SESSION STARTED
================================================================================
Session: %s
Started: %s
================================================================================
`, l.session, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level.
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, message))
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message.
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogError logs an error with context.
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// LogTradeRecorded logs a recorded trade outcome and the capital it left behind.
func (l *Logger) LogTradeRecorded(pair, side string, pnl, capital float64, tierLabel string) {
	l.Log(LogLevelTrade, "%s %s closed | pnl %+.2f | capital %.2f | tier %s",
		pair, side, pnl, capital, tierLabel)
}

// LogRejection logs a gate refusal. Rejections are routine, not errors.
func (l *Logger) LogRejection(pair, code, reason string) {
	l.Info("signal %s rejected [%s]: %s", pair, code, reason)
}

// LogTierTransition logs a promotion or demotion of the active tier.
func (l *Logger) LogTierTransition(from, to string, promoted bool) {
	arrow := "⬆️ PROMOTED"
	if !promoted {
		arrow = "⬇️ DEMOTED"
	}
	l.Log(LogLevelTier, "%s: %s -> %s", arrow, from, to)
}

// Close writes the session footer and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		footer := fmt.Sprintf(`
================================================================================
🛑 TIER ENGINE SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, time.Now().Format("2006-01-02 15:04:05"))
		l.logger.Print(footer)
		return l.logFile.Close()
	}
	return nil
}

// GetLogPath returns the current log file path.
func (l *Logger) GetLogPath() string {
	timestamp := time.Now().Format("2006-01-02")
	return filepath.Join(l.logDir, fmt.Sprintf("%s_%s.log", l.session, timestamp))
}
