package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

// BuildIndexUseCase walks a folder, extracts and enriches every supported
// file, embeds the resulting units and persists them as the current index.
// Every call is a full rebuild; there are no partial updates.
type BuildIndexUseCase struct {
	extractor ports.DocumentExtractor
	enricher  *EnrichmentPipeline
	embedder  ports.Embedder
	store     ports.IndexStore
	logger    *slog.Logger
}

func NewBuildIndexUseCase(
	extractor ports.DocumentExtractor,
	enricher *EnrichmentPipeline,
	embedder ports.Embedder,
	store ports.IndexStore,
	logger *slog.Logger,
) *BuildIndexUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildIndexUseCase{
		extractor: extractor,
		enricher:  enricher,
		embedder:  embedder,
		store:     store,
		logger:    logger,
	}
}

// Build returns the total unit count. Per-file and per-page failures are
// logged and skipped so one bad document cannot abort a multi-hundred-unit
// rebuild; only context cancellation and persistence failures propagate.
func (uc *BuildIndexUseCase) Build(ctx context.Context, folder string) (int, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return 0, domain.WrapError(domain.ErrInvalidInput, "stat folder", err)
	}
	if !info.IsDir() {
		return 0, domain.WrapError(domain.ErrInvalidInput, "stat folder", fmt.Errorf("%s is not a directory", folder))
	}

	units, err := uc.collectUnits(ctx, folder)
	if err != nil {
		return 0, err
	}

	vectors, err := uc.embedUnits(ctx, units)
	if err != nil {
		return 0, err
	}

	if err := uc.store.Save(ctx, units, vectors); err != nil {
		return 0, fmt.Errorf("persist index: %w", err)
	}

	uc.logger.Info("index_built", "folder", folder, "units", len(units))
	return len(units), nil
}

// collectUnits walks the folder in lexical order (filepath.WalkDir guarantee),
// so repeated rebuilds of unchanged input are reproducible.
func (uc *BuildIndexUseCase) collectUnits(ctx context.Context, folder string) ([]domain.Unit, error) {
	units := make([]domain.Unit, 0)

	err := filepath.WalkDir(folder, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			uc.logger.Warn("walk_entry_failed", "path", path, "error", walkErr)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !uc.extractor.Supports(path) {
			return nil
		}

		raw, err := uc.extractor.Extract(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			uc.logger.Warn("extract_failed", "path", path, "error", err)
			return nil
		}

		for _, r := range raw {
			unit := domain.Unit{
				Text: r.Text,
				Metadata: domain.UnitMetadata{
					FileName:   filepath.Base(path),
					FolderName: filepath.Base(filepath.Dir(path)),
					FolderPath: filepath.Dir(path),
					PageNumber: r.PageNumber,
				},
			}
			enriched, err := uc.enricher.Enrich(ctx, unit)
			if err != nil {
				return err
			}
			units = append(units, enriched)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}

func (uc *BuildIndexUseCase) embedUnits(ctx context.Context, units []domain.Unit) ([][]float32, error) {
	if len(units) == 0 {
		return nil, nil
	}

	texts := make([]string, len(units))
	for i, unit := range units {
		texts[i] = unit.Text
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed units: %w", err)
	}
	if len(vectors) != len(units) {
		return nil, domain.WrapError(
			domain.ErrEnrichmentService,
			"embed units",
			fmt.Errorf("vectors/units mismatch: %d/%d", len(vectors), len(units)),
		)
	}
	return vectors, nil
}
