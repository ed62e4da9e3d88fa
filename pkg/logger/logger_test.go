package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"igflash/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "invalid log level", cfg: &config.LoggingConfig{Level: "invalid"}, wantErr: true},
		{name: "file output", cfg: &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "igflash.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.WarnLevel)

	logger.Info("hidden message")
	logger.Warn("visible message")

	output := buf.String()
	if strings.Contains(output, "hidden message") {
		t.Error("Info message should be filtered at warn level")
	}
	if !strings.Contains(output, "visible message") {
		t.Error("Warn message not found in output")
	}
	if !strings.Contains(output, `"app":"igflash"`) {
		t.Error("App field not found in output")
	}
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	logger.
		WithField("login", "natgeo").
		WithFields(map[string]interface{}{"posts": 12, "cached": true}).
		WithError(errors.New("upstream down")).
		InfoWithFields("feed assembled", map[string]interface{}{"pages": 2})

	output := buf.String()
	for _, want := range []string{
		"feed assembled",
		`"login":"natgeo"`,
		`"posts":12`,
		`"cached":true`,
		`"error":"upstream down"`,
		`"pages":2`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %s in output %s", want, output)
		}
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, zerolog.DebugLevel)
	_ = parent.WithField("child", "only")

	parent.Info("parent message")
	if strings.Contains(buf.String(), "child") {
		t.Error("Parent logger picked up child field")
	}
}

func TestWithNilError(t *testing.T) {
	logger := NewWithWriter(&bytes.Buffer{}, zerolog.DebugLevel)
	if logger.WithError(nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}

func TestTestLoggerCapturesFields(t *testing.T) {
	log := NewTestLogger()
	log.WithField("url", "https://example.test").WarnWithFields("upstream failed", map[string]interface{}{"status": 502})
	log.Info("done")

	warns := log.GetMessagesByLevel("WARN")
	if len(warns) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warns))
	}
	if warns[0].Fields["url"] != "https://example.test" || warns[0].Fields["status"] != 502 {
		t.Errorf("Unexpected fields: %v", warns[0].Fields)
	}
	if !log.HasMessage("done") {
		t.Error("Expected info message to be captured")
	}

	log.Clear()
	if len(log.GetMessages()) != 0 {
		t.Error("Expected messages to be cleared")
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.WithField("k", "v").WithError(errors.New("x")).Error("ignored")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "igflash.log")
	log, err := New(&config.LoggingConfig{Level: "info", File: path, MaxSize: 1, MaxBackups: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.WithField("login", "natgeo").Info("written to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"written to file"`) || !strings.Contains(string(data), `"login":"natgeo"`) {
		t.Errorf("Unexpected log file contents: %s", data)
	}
}
