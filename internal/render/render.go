// Package render holds the source-attribution formatting shared by the
// one-shot CLI output and the chat session.
package render

import (
	"strconv"

	"github.com/kirillkom/docqa/internal/core/domain"
)

// SummaryPreviewChars bounds how much of a stored summary is shown per source.
const SummaryPreviewChars = 200

// PageLabel formats an optional page number, substituting the shared
// missing-field placeholder for sources without one.
func PageLabel(page *int) string {
	if page == nil {
		return domain.MissingField
	}
	return strconv.Itoa(*page)
}

// PreviewText truncates by runes so multibyte text is never cut mid-character.
func PreviewText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
