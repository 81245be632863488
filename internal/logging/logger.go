package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewHandler returns the JSON handler for stdout, teeing into a rotated file
// when logFile is set.
func NewHandler(debug bool, logFile string) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stdout
	if logFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// Setup installs NewHandler as the default logger and returns it so callers
// can fan it out later.
func Setup(debug bool, logFile string) slog.Handler {
	h := NewHandler(debug, logFile)
	slog.SetDefault(slog.New(h))
	return h
}
