package ports

import (
	"context"

	"github.com/kirillkom/docqa/internal/core/domain"
)

// IndexBuilder is the inbound contract for the "build index" action.
// Build performs a full rebuild and returns the total unit count.
type IndexBuilder interface {
	Build(ctx context.Context, folder string) (int, error)
}

// QuestionAnswerer is the inbound contract for the "ask" action. History is
// the caller-held conversation; the caller appends the returned answer.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string, history []domain.ChatTurn) (*domain.Answer, error)
}
