package main

import (
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		raw     string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"ERROR", slog.LevelError, false},
		{"4", slog.Level(4), false},
		{"verbose", 0, true},
	}

	for _, tc := range cases {
		got, err := parseLogLevel(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseLogLevel(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLogLevel(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestSelectedLogLevelPrecedence(t *testing.T) {
	if level, source := selectedLogLevel("debug", "warn", "info"); level != "debug" || source != "flag" {
		t.Fatalf("expected flag to win, got %q from %q", level, source)
	}
	if level, source := selectedLogLevel("", "warn", "info"); level != "warn" || source != "env" {
		t.Fatalf("expected env to win, got %q from %q", level, source)
	}
	if level, source := selectedLogLevel("", "", "info"); level != "info" || source != "config" {
		t.Fatalf("expected config to win, got %q from %q", level, source)
	}
	if level, source := selectedLogLevel("", "", ""); level != "" || source != "default" {
		t.Fatalf("expected default, got %q from %q", level, source)
	}
}

func TestConfigureLoggerForCLI(t *testing.T) {
	t.Setenv(logLevelEnvKey, "")

	warning, err := configureLoggerForCLI("debug", "info")
	if err != nil || warning != "" {
		t.Fatalf("valid flag level: warning=%q err=%v", warning, err)
	}

	if _, err := configureLoggerForCLI("verbose", "info"); err == nil {
		t.Fatal("expected error for invalid flag level")
	}

	warning, err = configureLoggerForCLI("", "verbose")
	if err != nil {
		t.Fatalf("invalid config level should warn, not fail: %v", err)
	}
	if !strings.Contains(warning, "invalid log_level") {
		t.Fatalf("expected config warning, got %q", warning)
	}

	t.Setenv(logLevelEnvKey, "verbose")
	warning, err = configureLoggerForCLI("", "info")
	if err != nil {
		t.Fatalf("invalid env level should warn, not fail: %v", err)
	}
	if !strings.Contains(warning, logLevelEnvKey) {
		t.Fatalf("expected env warning, got %q", warning)
	}
}
