// Package logging wires up structured, JSON-formatted logging for the
// adapter process, one *slog.Logger decorated with the service name
// and shared by every component.
package logging

import (
	"log/slog"
	"os"
)

// New creates a JSON slog.Logger for the given service, with its level
// controlled by LOG_LEVEL (DEBUG, INFO, WARN, ERROR; default INFO).
func New(serviceName string) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("service", serviceName))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
