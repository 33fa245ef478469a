package usecase

import (
	"context"
	"log/slog"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

// EnrichmentPipeline attaches a generated summary and extracted entities to
// each unit. Every remote call passes the shared rate gate first, so the
// provider's call ceiling holds regardless of how many units are processed.
type EnrichmentPipeline struct {
	service ports.EnrichmentService
	gate    ports.RateGate
	logger  *slog.Logger
}

func NewEnrichmentPipeline(service ports.EnrichmentService, gate ports.RateGate, logger *slog.Logger) *EnrichmentPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichmentPipeline{
		service: service,
		gate:    gate,
		logger:  logger,
	}
}

// Enrich populates summary then entities, in that order. A failed remote call
// leaves the corresponding field empty and the unit is still produced;
// ingestion throughput matters more than enrichment completeness. Only gate
// and context errors abort.
func (p *EnrichmentPipeline) Enrich(ctx context.Context, unit domain.Unit) (domain.Unit, error) {
	if err := p.gate.Wait(ctx); err != nil {
		return unit, err
	}
	summary, err := p.service.Summarize(ctx, unit.Text)
	if err != nil {
		if ctx.Err() != nil {
			return unit, ctx.Err()
		}
		p.logger.Warn("summarize_failed",
			"file", unit.Metadata.FileName,
			"page", pageAttr(unit.Metadata.PageNumber),
			"error", err,
		)
	} else {
		unit.Metadata.Summary = summary
	}

	if err := p.gate.Wait(ctx); err != nil {
		return unit, err
	}
	entities, err := p.service.ExtractEntities(ctx, unit.Text)
	if err != nil {
		if ctx.Err() != nil {
			return unit, ctx.Err()
		}
		p.logger.Warn("extract_entities_failed",
			"file", unit.Metadata.FileName,
			"page", pageAttr(unit.Metadata.PageNumber),
			"error", err,
		)
	} else {
		unit.Metadata.Entities = entities
	}

	return unit, nil
}

func pageAttr(page *int) any {
	if page == nil {
		return "none"
	}
	return *page
}
