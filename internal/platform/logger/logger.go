package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init 根据配置初始化全局 slog 日志器。
// debug 模式或 format=text 时使用易读的文本格式，否则输出JSON。
func Init(level, format string, debug bool) *slog.Logger {
	return initWithWriter(os.Stdout, level, format, debug)
}

func initWithWriter(w io.Writer, level, format string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if debug || strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
