package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("snapshot received", SnapshotID("abc"), Int("devices", 14))

	var entry struct {
		Level   string         `json:"level"`
		Message string         `json:"msg"`
		Fields  map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("Level %q, want INFO", entry.Level)
	}
	if entry.Message != "snapshot received" {
		t.Errorf("Message %q", entry.Message)
	}
	if entry.Fields["snapshot_id"] != "abc" {
		t.Errorf("snapshot_id field %v", entry.Fields["snapshot_id"])
	}
	if entry.Fields["devices"] != float64(14) {
		t.Errorf("devices field %v", entry.Fields["devices"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown too")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %s", len(lines), buf.String())
	}
}

func TestWithPresetsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel).With(Component("feed"))

	logger.Info("connected", Addr("tcp://127.0.0.1:40899"))

	out := buf.String()
	if !strings.Contains(out, `"component":"feed"`) {
		t.Errorf("Preset field missing: %s", out)
	}
	if !strings.Contains(out, `"addr":"tcp://127.0.0.1:40899"`) {
		t.Errorf("Call field missing: %s", out)
	}
}

func TestErrorField(t *testing.T) {
	f := Error(errors.New("bus offline"))
	if f.Key != "error" || f.Value != "bus offline" {
		t.Errorf("Error field %+v", f)
	}
	if nilField := Error(nil); nilField.Value != nil {
		t.Errorf("Nil error field %+v", nilField)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != DebugLevel || ParseLevel("WARNING") != WarnLevel {
		t.Error("ParseLevel mapping wrong")
	}
	if ParseLevel("nonsense") != InfoLevel {
		t.Error("Unknown level should default to INFO")
	}
}
