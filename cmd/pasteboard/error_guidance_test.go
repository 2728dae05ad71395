package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"pasteboard/internal/api"
)

func TestFormatCLIErrorNil(t *testing.T) {
	if lines := formatCLIError(nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}

func TestFormatCLIErrorPlain(t *testing.T) {
	lines := formatCLIError(errors.New("boom"))
	if len(lines) != 1 || lines[0] != "boom" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestFormatCLIErrorServerError(t *testing.T) {
	err := fmt.Errorf("request failed: %w", &api.APIError{Status: 500, Code: "internal", Message: "db exploded"})
	lines := formatCLIError(err)
	if len(lines) < 2 {
		t.Fatalf("expected a hint, got %v", lines)
	}
	if !strings.Contains(strings.Join(lines, "\n"), "server logs") {
		t.Fatalf("expected server-log hint, got %v", lines)
	}
}

func TestFormatCLIErrorTimeout(t *testing.T) {
	lines := formatCLIError(fmt.Errorf("get: %w", context.DeadlineExceeded))
	if !strings.Contains(strings.Join(lines, "\n"), "PASTEBOARD_HTTP_TIMEOUT") {
		t.Fatalf("expected timeout hint, got %v", lines)
	}
}

func TestFormatCLIErrorConnRefused(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	lines := formatCLIError(fmt.Errorf("ping: %w", netErr))
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "pasteboard srv") {
		t.Fatalf("expected srv hint, got %v", lines)
	}
}

func TestFormatCLIErrorDeduplicates(t *testing.T) {
	lines := formatCLIError(errors.New("dup"))
	seen := map[string]int{}
	for _, line := range lines {
		seen[line]++
		if seen[line] > 1 {
			t.Fatalf("duplicate line %q", line)
		}
	}
}

func TestParseIDArg(t *testing.T) {
	if id, err := parseIDArg("42"); err != nil || id != 42 {
		t.Fatalf("parseIDArg(42) = %d, %v", id, err)
	}
	for _, raw := range []string{"", "0", "-3", "abc"} {
		if _, err := parseIDArg(raw); err == nil {
			t.Errorf("parseIDArg(%q): expected error", raw)
		}
	}
}
