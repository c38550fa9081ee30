package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBotHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&botHandler{w: &buf, op: "Serve"})

	logger.Info("user registered", "id", "42", "username", "bob")

	line := buf.String()
	fields := strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	if len(fields) != 6 {
		t.Fatalf("fields = %d (%q), want 6", len(fields), line)
	}
	if fields[1] != "INFO" || fields[2] != "Serve" || fields[3] != "user registered" {
		t.Errorf("line = %q", line)
	}
	if fields[4] != "id=42" || fields[5] != "username=bob" {
		t.Errorf("attrs = %q, %q", fields[4], fields[5])
	}
}

func TestBotHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&botHandler{w: &buf, op: "Serve"}).With("chat", "7")

	logger.Error("delivery failed", "error", "timeout")

	line := buf.String()
	if !strings.Contains(line, "\tERROR\t") {
		t.Errorf("line %q missing level", line)
	}
	if !strings.Contains(line, "\tchat=7\t") {
		t.Errorf("line %q missing pre-set attr", line)
	}
	if !strings.Contains(line, "\terror=timeout") {
		t.Errorf("line %q missing record attr", line)
	}
}

func TestNewLogger(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(logDir, "Test")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	logger.Info("started")

	data, err := os.ReadFile(filepath.Join(logDir, "diskbot.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "\tINFO\tTest\tstarted") {
		t.Errorf("log file content = %q", data)
	}
}
