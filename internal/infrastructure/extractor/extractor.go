package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/kirillkom/docqa/internal/core/domain"
)

// FileExtractor handles one family of file kinds.
type FileExtractor interface {
	Extract(ctx context.Context, path string) ([]domain.RawUnit, error)
}

// Engine routes files to the right extractor by suffix and implements
// ports.DocumentExtractor. Unsupported suffixes are skipped without error.
type Engine struct {
	byExt map[string]FileExtractor
}

func NewEngine(pdf, flat FileExtractor) *Engine {
	return &Engine{
		byExt: map[string]FileExtractor{
			".pdf":  pdf,
			".txt":  flat,
			".docx": flat,
			".doc":  flat,
			".rtf":  flat,
			".odt":  flat,
		},
	}
}

func (e *Engine) Supports(path string) bool {
	_, ok := e.byExt[normalizedExt(path)]
	return ok
}

func (e *Engine) Extract(ctx context.Context, path string) ([]domain.RawUnit, error) {
	impl, ok := e.byExt[normalizedExt(path)]
	if !ok {
		return nil, nil
	}
	return impl.Extract(ctx, path)
}

func normalizedExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
