// Package logger is the process-wide structured logger.
//
// Calls name a component and optionally attach a field map, e.g.
//
//	logger.InfoCF("dispatch", "Dispatch complete", map[string]any{"lenses": 3})
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var (
	mu      sync.RWMutex
	level   = new(slog.LevelVar)
	handler slog.Handler
	base    *slog.Logger
)

func init() {
	level.Set(slog.LevelInfo)
	SetOutput(os.Stderr)
}

// SetOutput redirects log output. Tests point it at a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	base = slog.New(handler)
}

func SetLevel(l LogLevel) {
	level.Set(toSlog(l))
}

func GetLevel() LogLevel {
	switch level.Level() {
	case slog.LevelDebug:
		return DEBUG
	case slog.LevelWarn:
		return WARN
	case slog.LevelError:
		return ERROR
	default:
		return INFO
	}
}

func toSlog(l LogLevel) slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logMessage(l LogLevel, component, message string, fields map[string]any) {
	mu.RLock()
	lg := base
	mu.RUnlock()

	sl := toSlog(l)
	if !lg.Enabled(context.Background(), sl) {
		return
	}

	attrs := make([]slog.Attr, 0, len(fields)+1)
	if component != "" {
		attrs = append(attrs, slog.String("component", component))
	}
	// Stable field order keeps log lines diffable.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	lg.LogAttrs(context.Background(), sl, message, attrs...)
}

func Debug(message string) { logMessage(DEBUG, "", message, nil) }
func DebugC(component, message string) { logMessage(DEBUG, component, message, nil) }
func DebugF(message string, f map[string]any) { logMessage(DEBUG, "", message, f) }
func DebugCF(component, message string, f map[string]any) {
	logMessage(DEBUG, component, message, f)
}

func Info(message string) { logMessage(INFO, "", message, nil) }
func InfoC(component, message string) { logMessage(INFO, component, message, nil) }
func InfoF(message string, f map[string]any) { logMessage(INFO, "", message, f) }
func InfoCF(component, message string, f map[string]any) {
	logMessage(INFO, component, message, f)
}

func Warn(message string) { logMessage(WARN, "", message, nil) }
func WarnC(component, message string) { logMessage(WARN, component, message, nil) }
func WarnCF(component, message string, f map[string]any) {
	logMessage(WARN, component, message, f)
}

func Error(message string) { logMessage(ERROR, "", message, nil) }
func ErrorC(component, message string) { logMessage(ERROR, component, message, nil) }
func ErrorCF(component, message string, f map[string]any) {
	logMessage(ERROR, component, message, f)
}
