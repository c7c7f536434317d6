package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("SKYRAID_TEST_STR", "value")
	t.Setenv("SKYRAID_TEST_INT", "42")
	t.Setenv("SKYRAID_TEST_BAD_INT", "forty")
	t.Setenv("SKYRAID_TEST_DUR", "250ms")
	t.Setenv("SKYRAID_TEST_BAD_DUR", "soon")

	if got := GetEnv("SKYRAID_TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("SKYRAID_TEST_UNSET", "x"); got != "x" {
		t.Errorf("GetEnv fallback = %q", got)
	}
	if got := GetEnvInt("SKYRAID_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("SKYRAID_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("GetEnvInt bad = %d", got)
	}
	if got := GetEnvDuration("SKYRAID_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnvDuration("SKYRAID_TEST_BAD_DUR", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration bad = %v", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":  log.DebugLevel,
		" WARN ": log.WarnLevel,
		"error":  log.ErrorLevel,
		"":       log.InfoLevel,
		"loud":   log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Info("hidden")
	logger.Warn("shown", "key", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "test") {
		t.Errorf("prefix missing from %q", out)
	}
}
