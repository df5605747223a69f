package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"avatarforge/internal/logging"
)

func TestConsoleHandlerRendersComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.WithComponent(logger, "automap").Info("rule matched",
		logging.Args(logging.Slot("Mouth/viseme/AI"), logging.Float64("confidence", 0.7))...)

	out := buf.String()
	if !strings.Contains(out, "[automap]") {
		t.Fatalf("missing component bracket in %q", out)
	}
	if !strings.Contains(out, "rule matched") {
		t.Fatalf("missing message in %q", out)
	}
	if !strings.Contains(out, "slot: Mouth/viseme/AI") {
		t.Fatalf("missing slot field in %q", out)
	}
}

func TestJSONHandlerEmitsLowercaseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("atlas capped", logging.Args(logging.Int("omitted", 3))...)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if record["level"] != "warn" {
		t.Fatalf("level = %v", record["level"])
	}
	if record["msg"] != "atlas capped" {
		t.Fatalf("msg = %v", record["msg"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info record should be filtered, got %q", buf.String())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
