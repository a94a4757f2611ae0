package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger_WritesJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")

	logger, err := NewLogger(path, "DEBUG")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info("batch produced", "artifacts", 42)
	logger.Warn("artifact open failed", "path", "/tmp/f3")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v", err)
		}
		lines = append(lines, entry)
	}

	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
	if lines[0]["msg"] != "batch produced" {
		t.Errorf("msg = %v, want %q", lines[0]["msg"], "batch produced")
	}
	if lines[0]["artifacts"] != float64(42) {
		t.Errorf("artifacts = %v, want 42", lines[0]["artifacts"])
	}
	if lines[1]["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", lines[1]["level"])
	}
}

func TestLogger_ContextPropagation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")

	logger, err := NewLogger(path, "INFO")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	child := logger.WithRun("run-1").WithStrategy("barrier").WithRole("racer").With("racer_id", 3)
	child.Info("assignment complete")

	// Parent logger must not inherit child attributes.
	logger.Info("plain")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Scan()
	var first map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &first); err != nil {
		t.Fatalf("unmarshal first line: %v", err)
	}
	if first["run_id"] != "run-1" || first["strategy"] != "barrier" || first["role"] != "racer" {
		t.Errorf("missing context attrs: %v", first)
	}
	if first["racer_id"] != float64(3) {
		t.Errorf("racer_id = %v, want 3", first["racer_id"])
	}

	scanner.Scan()
	var second map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &second); err != nil {
		t.Fatalf("unmarshal second line: %v", err)
	}
	if _, ok := second["role"]; ok {
		t.Errorf("parent logger leaked child attribute: %v", second)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")

	logger, err := NewLogger(path, "WARN")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Debug("invisible")
	logger.Info("also invisible")
	logger.Error("visible")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	count := 0
	for scanner.Scan() {
		count++
	}
	if count != 1 {
		t.Errorf("got %d lines, want 1", count)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Info("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on NopLogger error = %v", err)
	}
}
