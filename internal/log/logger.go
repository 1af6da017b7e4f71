package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a minimal leveled logger. Variadic arguments are interpreted as
// alternating key/value pairs and rendered as "key=value" after the message.
type Logger struct {
	mu     sync.Mutex
	level  Level
	writer io.Writer
}

var globalLogger *Logger

func init() {
	globalLogger = &Logger{
		level:  LevelInfo,
		writer: os.Stdout,
	}
}

func Debug(msg string, args ...interface{}) {
	globalLogger.log(LevelDebug, msg, args...)
}

func Info(msg string, args ...interface{}) {
	globalLogger.log(LevelInfo, msg, args...)
}

func Warn(msg string, args ...interface{}) {
	globalLogger.log(LevelWarn, msg, args...)
}

func Error(msg string, args ...interface{}) {
	globalLogger.log(LevelError, msg, args...)
}

func SetLevel(level Level) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.level = level
}

func SetWriter(w io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.writer = w
}

// StdLogger returns a *log.Logger for libraries that require one.
func StdLogger() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	prefix := ""
	switch level {
	case LevelDebug:
		prefix = "DEBUG"
	case LevelInfo:
		prefix = "INFO"
	case LevelWarn:
		prefix = "WARN"
	case LevelError:
		prefix = "ERROR"
	}

	line := "[" + prefix + "] " + msg
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			line += fmt.Sprintf(" %v=%v", args[i], args[i+1])
		} else {
			// Odd trailing argument, append it bare.
			line += fmt.Sprintf(" %v", args[i])
		}
	}

	fmt.Fprintln(l.writer, line)
}
