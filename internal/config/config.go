package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "DOCQA_CONFIG"

// Config is assembled in three layers: built-in defaults, then an optional
// YAML file (DOCQA_CONFIG or ./docqa.yaml), then environment variables.
// Later layers win.
type Config struct {
	LogLevel string `yaml:"log_level"`

	CohereAPIKey      string `yaml:"-"`
	CohereBaseURL     string `yaml:"cohere_base_url"`
	CohereEmbedModel  string `yaml:"cohere_embed_model"`
	CohereEnrichModel string `yaml:"cohere_enrich_model"`
	CohereAnswerModel string `yaml:"cohere_answer_model"`

	IndexDir string `yaml:"index_dir"`
	TopK     int    `yaml:"top_k"`

	EnrichIntervalSeconds int    `yaml:"enrich_interval_seconds"`
	OCRLanguage           string `yaml:"ocr_language"`

	MetricsAddr string `yaml:"metrics_addr"`
}

func (c Config) EnrichInterval() time.Duration {
	return time.Duration(c.EnrichIntervalSeconds) * time.Second
}

// Validate rejects configurations the application cannot run with. The API
// key in particular has no default on purpose.
func (c Config) Validate() error {
	if c.CohereAPIKey == "" {
		return fmt.Errorf("COHERE_API_KEY is not set")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.EnrichIntervalSeconds < 0 {
		return fmt.Errorf("enrich_interval_seconds must not be negative, got %d", c.EnrichIntervalSeconds)
	}
	return nil
}

func Load() (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := defaults()

	if err := applyFile(&cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	return cfg, nil
}

func defaults() Config {
	return Config{
		LogLevel: "info",

		CohereBaseURL:     "https://api.cohere.com",
		CohereEmbedModel:  "embed-english-v3.0",
		CohereEnrichModel: "command-r-plus",
		CohereAnswerModel: "command-a-03-2025",

		IndexDir: "./data/index",
		TopK:     5,

		EnrichIntervalSeconds: 6,
		OCRLanguage:           "eng",

		MetricsAddr: "",
	}
}

func applyFile(cfg *Config) error {
	path := os.Getenv(configPathEnv)
	explicit := path != ""
	if !explicit {
		path = "docqa.yaml"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	cfg.CohereAPIKey = envString("COHERE_API_KEY", cfg.CohereAPIKey)
	cfg.CohereBaseURL = envString("COHERE_BASE_URL", cfg.CohereBaseURL)
	cfg.CohereEmbedModel = envString("COHERE_EMBED_MODEL", cfg.CohereEmbedModel)
	cfg.CohereEnrichModel = envString("COHERE_ENRICH_MODEL", cfg.CohereEnrichModel)
	cfg.CohereAnswerModel = envString("COHERE_ANSWER_MODEL", cfg.CohereAnswerModel)

	cfg.IndexDir = envString("INDEX_DIR", cfg.IndexDir)
	cfg.TopK = envInt("TOP_K", cfg.TopK)

	cfg.EnrichIntervalSeconds = envInt("ENRICH_INTERVAL_SECONDS", cfg.EnrichIntervalSeconds)
	cfg.OCRLanguage = envString("OCR_LANGUAGE", cfg.OCRLanguage)

	cfg.MetricsAddr = envString("METRICS_ADDR", cfg.MetricsAddr)
}

func envString(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
