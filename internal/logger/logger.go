package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *slog.Logger

// Init configures the process-wide logger: text output on stdout, debug level
// when DEBUG=true or LOG_LEVEL=debug, plus a rotating log file when LOG_FILE
// is set.
func Init() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" || strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var out io.Writer = os.Stdout
	if path := os.Getenv("LOG_FILE"); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			rotator := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    envInt("LOG_MAX_SIZE_MB", 10),
				MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
				MaxAge:     envInt("LOG_MAX_AGE_DAYS", 28),
				Compress:   true,
			}
			out = io.MultiWriter(os.Stdout, rotator)
		}
	}

	Logger = slog.New(slog.NewTextHandler(out, opts))
	slog.SetDefault(Logger)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
