package config

import (
	"log/slog"
	"os"
	"strings"
)

var logLevel = new(slog.LevelVar)

// SetupLogger 根据配置设置日志级别，之后可通过 SetLogLevel 热更新
func SetupLogger(level string) {
	logLevel.Set(ParseLogLevel(level))

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// SetLogLevel 运行时调整日志级别
func SetLogLevel(level string) {
	next := ParseLogLevel(level)
	if logLevel.Level() != next {
		logLevel.Set(next)
		slog.Info("日志级别已更新", "level", next.String())
	}
}

// ParseLogLevel 解析日志级别，未知值按 info 处理
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
