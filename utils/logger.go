package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	LogLevelError = LogLevel(1 << iota)
	LogLevelInfo
	LogLevelNotice
	LogLevelDebug
)

var GlobalLogLevel = LogLevelError | LogLevelInfo

// LogFile adds the caller file:line to each line
var LogFile bool

var (
	logOutput     io.Writer = os.Stderr
	logOutputLock sync.Mutex
)

// SetLogOutput redirects all log lines to w. Lines are written whole, one Write call each.
func SetLogOutput(w io.Writer) {
	logOutputLock.Lock()
	defer logOutputLock.Unlock()
	logOutput = w
}

func SetLogLevel(level LogLevel) {
	GlobalLogLevel = level
}

func IsLogLevelDebug() bool {
	return GlobalLogLevel&LogLevelDebug > 0
}

func Panicf(format string, v ...any) {
	panic(logf("", "PANIC", format, v...))
}

func Fatalf(format string, v ...any) {
	logf("", "FATAL", format, v...)
	//nolint:revive,gocritic
	os.Exit(1)
}

func Errorf(prefix, format string, v ...any) {
	if GlobalLogLevel&LogLevelError > 0 {
		logf(prefix, "ERROR", format, v...)
	}
}

func Logf(prefix, format string, v ...any) {
	if GlobalLogLevel&LogLevelInfo > 0 {
		logf(prefix, "INFO", format, v...)
	}
}

func Noticef(prefix, format string, v ...any) {
	if GlobalLogLevel&LogLevelNotice > 0 {
		logf(prefix, "NOTICE", format, v...)
	}
}

func Debugf(prefix, format string, v ...any) {
	if GlobalLogLevel&LogLevelDebug > 0 {
		logf(prefix, "DEBUG", format, v...)
	}
}

// logf writes one line and returns it without the trailing newline. Must be called directly from an exported logger.
func logf(prefix, class, format string, v ...any) string {
	var sb strings.Builder
	sb.WriteString(time.Now().UTC().Format("2006-01-02 15:04:05.000"))
	if LogFile {
		if _, file, line, ok := runtime.Caller(2); ok {
			fmt.Fprintf(&sb, " %s:%d", filepath.Base(file), line)
		} else {
			sb.WriteString(" ???:0")
		}
	}
	fmt.Fprintf(&sb, " [%s] %s ", prefix, class)
	fmt.Fprintf(&sb, format, v...)

	line := strings.TrimSpace(sb.String())

	logOutputLock.Lock()
	defer logOutputLock.Unlock()
	_, _ = io.WriteString(logOutput, line+"\n")
	return line
}
