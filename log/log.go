// Package log provides a simple wrapper around logrus
// with a familiar API (Printf, Infof, Errorf, etc.)
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"

	reqctx "github.com/va6996/routebot/context"

	"github.com/sirupsen/logrus"
)

// Logger is the global logger instance
var Logger = logrus.New()

const (
	fieldRequestID = "request_id"
	fieldUserID    = "user_id"
)

// CustomFormatter implements logrus.Formatter for the desired output format
type CustomFormatter struct {
	TimestampFormat string
}

// Format formats a log entry as [<time>] [LEVEL] [file:line] <message> [req:<id>] user=<id> k=v...
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	fmt.Fprintf(b, "[%s] ", entry.Time.Format(f.TimestampFormat))
	fmt.Fprintf(b, "[%s] ", strings.ToUpper(entry.Level.String()))

	if file, line := callerOutsideLogging(); file != "" {
		fmt.Fprintf(b, "[%s:%d] ", file, line)
	}

	b.WriteString(entry.Message)

	if requestID, ok := entry.Data[fieldRequestID].(string); ok && requestID != "" {
		fmt.Fprintf(b, " [req:%s]", requestID)
	}
	if userID, ok := entry.Data[fieldUserID]; ok {
		fmt.Fprintf(b, " user=%v", userID)
	}

	// Remaining fields in stable order
	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != fieldRequestID && key != fieldUserID {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(b, " %s=%v", key, entry.Data[key])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// callerOutsideLogging walks the stack past logrus and this package and
// returns the base file name and line of the first caller.
func callerOutsideLogging() (string, int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		skip := strings.Contains(frame.File, "github.com/sirupsen/logrus") ||
			strings.HasSuffix(frame.File, "log/log.go") ||
			strings.Contains(frame.File, "runtime/")
		if !skip {
			parts := strings.Split(frame.File, "/")
			return parts[len(parts)-1], frame.Line
		}
		if !more {
			return "", 0
		}
	}
}

// entryFor attaches request and user IDs found on ctx
func entryFor(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{fieldRequestID: reqctx.RequestIDFromContext(ctx)}
	if userID, ok := reqctx.UserIDFromContext(ctx); ok {
		fields[fieldUserID] = userID
	}
	return Logger.WithFields(fields)
}

// Infof logs formatted message at info level
func Infof(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Infof(format, args...)
}

// Info logs a message at info level
func Info(ctx context.Context, args ...interface{}) {
	entryFor(ctx).Info(args...)
}

// Debugf logs formatted message at debug level
func Debugf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Debugf(format, args...)
}

// Debug logs a message at debug level
func Debug(ctx context.Context, args ...interface{}) {
	entryFor(ctx).Debug(args...)
}

// Warnf logs formatted message at warning level
func Warnf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Warnf(format, args...)
}

// Warn logs a message at warning level
func Warn(ctx context.Context, args ...interface{}) {
	entryFor(ctx).Warn(args...)
}

// Errorf logs formatted message at error level
func Errorf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Errorf(format, args...)
}

// Error logs a message at error level
func Error(ctx context.Context, args ...interface{}) {
	entryFor(ctx).Error(args...)
}

// Fatalf logs formatted message at fatal level and exits
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Fatalf(format, args...)
}

// SetOutput sets the global log output
func SetOutput(out io.Writer) {
	Logger.SetOutput(out)
}

// Init initializes the logger. Unknown levels fall back to info.
func Init(level string) {
	Logger.SetFormatter(&CustomFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)
}

// WithField creates a logger with predefined field
func WithField(ctx context.Context, key string, value interface{}) *logrus.Entry {
	return entryFor(ctx).WithField(key, value)
}
