package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/kirillkom/docqa/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		LogLevel:              "error",
		CohereAPIKey:          "test-key",
		CohereBaseURL:         "https://api.cohere.com",
		CohereEmbedModel:      "embed-english-v3.0",
		CohereEnrichModel:     "command-r-plus",
		CohereAnswerModel:     "command-a-03-2025",
		IndexDir:              filepath.Join(t.TempDir(), "index"),
		TopK:                  5,
		EnrichIntervalSeconds: 6,
		OCRLanguage:           "eng",
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.CohereAPIKey = ""

	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for missing API key, got nil")
	}
}

func TestNewWiresApplication(t *testing.T) {
	app, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if app.Logger == nil {
		t.Error("Logger is nil")
	}
	if app.Metrics == nil {
		t.Error("Metrics is nil")
	}
	if app.Builder == nil {
		t.Error("Builder is nil")
	}
	if app.Answerer == nil {
		t.Error("Answerer is nil")
	}
}
