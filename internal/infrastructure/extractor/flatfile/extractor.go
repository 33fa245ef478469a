package flatfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"

	"github.com/kirillkom/docqa/internal/core/domain"
)

// Extractor reads non-paginated documents as a single unit with a nil page
// number. Plain text is read directly; word-processor formats go through
// docconv. A whitespace-only file yields no unit.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.RawUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.WrapError(domain.ErrExtraction, "read text file", err)
		}
		if !utf8.Valid(raw) {
			return nil, domain.WrapError(domain.ErrExtraction, "read text file",
				fmt.Errorf("%s is not valid utf-8", filepath.Base(path)))
		}
		text = string(raw)
	default:
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return nil, domain.WrapError(domain.ErrExtraction, "convert document", err)
		}
		text = res.Body
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return []domain.RawUnit{{Text: text}}, nil
}
