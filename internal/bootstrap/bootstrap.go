package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/kirillkom/docqa/internal/config"
	"github.com/kirillkom/docqa/internal/core/ports"
	"github.com/kirillkom/docqa/internal/core/usecase"
	"github.com/kirillkom/docqa/internal/infrastructure/extractor"
	"github.com/kirillkom/docqa/internal/infrastructure/extractor/flatfile"
	"github.com/kirillkom/docqa/internal/infrastructure/extractor/pdfpage"
	"github.com/kirillkom/docqa/internal/infrastructure/index/localdisk"
	"github.com/kirillkom/docqa/internal/infrastructure/llm/cohere"
	"github.com/kirillkom/docqa/internal/infrastructure/ocr/tesseract"
	"github.com/kirillkom/docqa/internal/infrastructure/ratelimit"
	"github.com/kirillkom/docqa/internal/observability/logging"
	"github.com/kirillkom/docqa/internal/observability/metrics"
)

const serviceName = "docqa"

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.PipelineMetrics

	Builder  ports.IndexBuilder
	Answerer ports.QuestionAnswerer
}

func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(serviceName, cfg.LogLevel)

	client := cohere.New(cohere.Config{
		BaseURL:     cfg.CohereBaseURL,
		APIKey:      cfg.CohereAPIKey,
		EmbedModel:  cfg.CohereEmbedModel,
		EnrichModel: cfg.CohereEnrichModel,
		AnswerModel: cfg.CohereAnswerModel,
	})
	embedder := cohere.NewEmbedder(client)
	enricher := cohere.NewEnricher(client)
	generator := cohere.NewGenerator(client)

	gate := ratelimit.NewGate(cfg.EnrichInterval())

	ocr := tesseract.New(cfg.OCRLanguage)
	if !ocr.Available() {
		logger.Warn("ocr_unavailable",
			"detail", "pdftoppm or tesseract not found in PATH, scanned pages will be skipped")
	}

	engine := extractor.NewEngine(
		pdfpage.New(ocr, logger),
		flatfile.New(),
	)

	store := localdisk.NewStore(cfg.IndexDir)

	enrichment := usecase.NewEnrichmentPipeline(enricher, gate, logger)
	builder := usecase.NewBuildIndexUseCase(engine, enrichment, embedder, store, logger)
	answerer := usecase.NewAnswerUseCase(store, embedder, generator, cfg.TopK)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.NewPipelineMetrics(serviceName),
		Builder:  builder,
		Answerer: answerer,
	}, nil
}
