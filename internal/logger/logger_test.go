package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfig(t *testing.T) {
	console := Config(Options{App: "tutorhub", Version: "1.2.0"})
	if console.Encoding != "console" || console.Level.Level() != zapcore.InfoLevel {
		t.Fatalf("unexpected console config: %s/%s", console.Encoding, console.Level.Level())
	}
	if console.OutputPaths[0] != "stderr" {
		t.Fatalf("expected stderr output, got %v", console.OutputPaths)
	}
	if len(console.InitialFields) != 0 {
		t.Fatalf("console lines must stay short, got %v", console.InitialFields)
	}

	structured := Config(Options{JSON: true, Debug: true, File: " /tmp/x.log ", App: "tutorhub"})
	if structured.Encoding != "json" || structured.Level.Level() != zapcore.DebugLevel {
		t.Fatalf("unexpected json config: %s/%s", structured.Encoding, structured.Level.Level())
	}
	if structured.OutputPaths[0] != "/tmp/x.log" {
		t.Fatalf("expected file output, got %v", structured.OutputPaths)
	}
	if structured.InitialFields[FieldApp] != "tutorhub" {
		t.Fatalf("missing app field: %v", structured.InitialFields)
	}
	if _, ok := structured.InitialFields[FieldVersion]; ok {
		t.Fatalf("empty version must be omitted: %v", structured.InitialFields)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tutorhub.log")

	logger, err := New(Options{JSON: true, File: path, App: "tutorhub", Version: "dev"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	WithListing(logger, "posts", "/posts").Info("fetched page", zap.Int("page", 2))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log line is not json: %v\n%s", err, data)
	}

	want := map[string]any{
		"step":        "fetched page",
		"level":       "info",
		FieldApp:      "tutorhub",
		FieldVersion:  "dev",
		FieldListing:  "posts",
		FieldEndpoint: "/posts",
		"page":        float64(2),
	}
	for key, value := range want {
		if entry[key] != value {
			t.Fatalf("%s = %v, want %v", key, entry[key], value)
		}
	}
}
