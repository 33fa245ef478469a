package ports

import (
	"context"

	"github.com/kirillkom/docqa/internal/core/domain"
)

// DocumentExtractor turns one source file into raw units (text only;
// provenance metadata is attached by the caller).
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) ([]domain.RawUnit, error)
	Supports(path string) bool
}

// EnrichmentService is the remote summary/entity surface of the language-model
// service. Entity extraction bounds its input on the adapter side.
type EnrichmentService interface {
	Summarize(ctx context.Context, text string) (string, error)
	ExtractEntities(ctx context.Context, text string) (string, error)
}

// Embedder builds vectors for unit texts and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// AnswerGenerator creates the final user-facing answer from the full turn
// sequence (prior history plus the context-bearing user turn).
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, turns []domain.ChatTurn) (string, error)
}

// RateGate is the shared mutually-exclusive gate in front of remote
// enrichment calls. Wait blocks until the next call is allowed.
type RateGate interface {
	Wait(ctx context.Context) error
}

// SearchIndex is a loaded, read-only index supporting similarity retrieval.
type SearchIndex interface {
	Search(queryVector []float32, k int) ([]domain.ScoredUnit, error)
	Len() int
}

// IndexStore persists and reloads the single current index. Save atomically
// replaces any prior index; Load returns domain.ErrIndexNotFound when no
// successful build exists.
type IndexStore interface {
	Save(ctx context.Context, units []domain.Unit, vectors [][]float32) error
	Load(ctx context.Context) (SearchIndex, error)
}
