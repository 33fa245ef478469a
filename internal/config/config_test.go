package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOCQA_CONFIG", "LOG_LEVEL",
		"COHERE_API_KEY", "COHERE_BASE_URL",
		"COHERE_EMBED_MODEL", "COHERE_ENRICH_MODEL", "COHERE_ANSWER_MODEL",
		"INDEX_DIR", "TOP_K", "ENRICH_INTERVAL_SECONDS", "OCR_LANGUAGE", "METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
	if cfg.CohereBaseURL != "https://api.cohere.com" {
		t.Fatalf("expected default base url, got %q", cfg.CohereBaseURL)
	}
	if cfg.CohereEmbedModel != "embed-english-v3.0" {
		t.Fatalf("expected default embed model, got %q", cfg.CohereEmbedModel)
	}
	if cfg.CohereEnrichModel != "command-r-plus" {
		t.Fatalf("expected default enrich model, got %q", cfg.CohereEnrichModel)
	}
	if cfg.CohereAnswerModel != "command-a-03-2025" {
		t.Fatalf("expected default answer model, got %q", cfg.CohereAnswerModel)
	}
	if cfg.IndexDir != "./data/index" {
		t.Fatalf("expected default index dir, got %q", cfg.IndexDir)
	}
	if cfg.TopK != 5 {
		t.Fatalf("expected default top-k 5, got %d", cfg.TopK)
	}
	if cfg.EnrichIntervalSeconds != 6 {
		t.Fatalf("expected default enrich interval 6s, got %d", cfg.EnrichIntervalSeconds)
	}
	if cfg.EnrichInterval() != 6*time.Second {
		t.Fatalf("expected 6s interval, got %s", cfg.EnrichInterval())
	}
	if cfg.OCRLanguage != "eng" {
		t.Fatalf("expected default ocr language eng, got %q", cfg.OCRLanguage)
	}
	if cfg.CohereAPIKey != "" {
		t.Fatalf("expected no default api key, got %q", cfg.CohereAPIKey)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("COHERE_API_KEY", "secret")
	t.Setenv("INDEX_DIR", "/var/lib/docqa")
	t.Setenv("TOP_K", "8")
	t.Setenv("ENRICH_INTERVAL_SECONDS", "12")
	t.Setenv("METRICS_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CohereAPIKey != "secret" {
		t.Fatalf("expected api key from env, got %q", cfg.CohereAPIKey)
	}
	if cfg.IndexDir != "/var/lib/docqa" {
		t.Fatalf("expected index dir override, got %q", cfg.IndexDir)
	}
	if cfg.TopK != 8 {
		t.Fatalf("expected top-k 8, got %d", cfg.TopK)
	}
	if cfg.EnrichIntervalSeconds != 12 {
		t.Fatalf("expected enrich interval 12, got %d", cfg.EnrichIntervalSeconds)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Fatalf("expected metrics addr :9090, got %q", cfg.MetricsAddr)
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOP_K", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TopK != 5 {
		t.Fatalf("expected fallback top-k 5, got %d", cfg.TopK)
	}
}

func TestLoadYAMLFileThenEnvWins(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "docqa.yaml")
	content := "index_dir: /from/file\ntop_k: 9\nocr_language: deu\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("DOCQA_CONFIG", path)
	t.Setenv("TOP_K", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IndexDir != "/from/file" {
		t.Fatalf("expected index dir from file, got %q", cfg.IndexDir)
	}
	if cfg.OCRLanguage != "deu" {
		t.Fatalf("expected ocr language from file, got %q", cfg.OCRLanguage)
	}
	if cfg.TopK != 3 {
		t.Fatalf("expected env to win over file, got %d", cfg.TopK)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCQA_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := defaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error without api key")
	}

	cfg.CohereAPIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsNonPositiveTopK(t *testing.T) {
	cfg := defaults()
	cfg.CohereAPIKey = "secret"
	cfg.TopK = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for top_k 0")
	}
}
