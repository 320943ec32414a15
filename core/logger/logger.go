package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	std  *slog.Logger
	once sync.Once
)

// Init configures the process logger. level is one of debug, info, warn, error.
func Init(level string) {
	once.Do(func() {
		std = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLevel(level),
		}))
		slog.SetDefault(std)
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func get() *slog.Logger {
	if std == nil {
		Init("info")
	}
	return std
}

func Debug(msg string, args ...any) {
	get().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	get().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
}

// normalize tolerates a bare error (or any odd trailing value) passed without
// a key, so call sites like Error("Repo:Create:Error:", err) stay valid.
func normalize(args []any) []any {
	if len(args)%2 == 0 {
		return args
	}
	out := make([]any, 0, len(args)+1)
	out = append(out, args[:len(args)-1]...)
	last := args[len(args)-1]
	if _, ok := last.(error); ok {
		out = append(out, "error", last)
	} else {
		out = append(out, "value", last)
	}
	return out
}
