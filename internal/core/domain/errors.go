package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrExtraction marks a single file or page that could not be read.
	ErrExtraction = errors.New("extraction failed")
	// ErrEnrichmentService marks a failed remote summarize/extract/embed/generate call.
	ErrEnrichmentService = errors.New("enrichment service failure")
	// ErrIndexNotFound means a query was attempted before any successful build.
	ErrIndexNotFound = errors.New("index not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
