package pdfpage

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/docqa/internal/core/domain"
)

// OCREngine recognizes text on a rendered PDF page. An implementation may
// legitimately return ("", nil) when OCR is unavailable.
type OCREngine interface {
	RecognizePage(ctx context.Context, pdfPath string, page int) (string, error)
}

// Extractor emits one raw unit per PDF page, pages 1..N in order. Each page
// combines native text extraction with an independent OCR pass; pages where
// both come back empty are dropped silently.
type Extractor struct {
	ocr    OCREngine
	logger *slog.Logger
}

func New(ocr OCREngine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{ocr: ocr, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.RawUnit, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrExtraction, "open pdf", err)
	}
	defer file.Close()

	var units []domain.RawUnit
	for num := 1; num <= reader.NumPage(); num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		native := e.nativeText(reader, path, num)

		ocrText := ""
		if e.ocr != nil {
			ocrText, err = e.ocr.RecognizePage(ctx, path, num)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				e.logger.Warn("ocr_failed", "path", path, "page", num, "error", err)
				ocrText = ""
			}
		}

		combined := combinePageText(native, ocrText)
		if combined == "" {
			continue
		}

		page := num
		units = append(units, domain.RawUnit{Text: combined, PageNumber: &page})
	}
	return units, nil
}

// nativeText never fails a page: ledongthuc/pdf panics on some malformed
// content streams, so a bad page degrades to empty and OCR remains the
// only source for it.
func (e *Extractor) nativeText(reader *pdf.Reader, path string, num int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("native_extraction_panic", "path", path, "page", num, "panic", r)
			text = ""
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		e.logger.Warn("native_extraction_failed", "path", path, "page", num, "error", err)
		return ""
	}
	return strings.TrimSpace(content)
}

// combinePageText joins native text and OCR text, native first, separated by
// one line break, skipping whichever side is empty.
func combinePageText(native, ocr string) string {
	native = strings.TrimSpace(native)
	ocr = strings.TrimSpace(ocr)
	switch {
	case native == "":
		return ocr
	case ocr == "":
		return native
	default:
		return native + "\n" + ocr
	}
}
