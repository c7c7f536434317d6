package config

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger creates a timestamped logger writing to w. The level comes
// from LOG_LEVEL and defaults to info.
func NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(ParseLevel(GetEnv("LOG_LEVEL", "info")))
	return logger
}

// ParseLevel maps a level name to a log level, falling back to info.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}
