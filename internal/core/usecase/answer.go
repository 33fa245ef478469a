package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

const defaultTopK = 5

// AnswerUseCase loads the persisted index, retrieves the top-k units for the
// raw question text, and generates an answer conditioned on prior history plus
// the retrieved context. History biases generation only, never retrieval.
type AnswerUseCase struct {
	store     ports.IndexStore
	embedder  ports.Embedder
	generator ports.AnswerGenerator
	topK      int
}

func NewAnswerUseCase(
	store ports.IndexStore,
	embedder ports.Embedder,
	generator ports.AnswerGenerator,
	topK int,
) *AnswerUseCase {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &AnswerUseCase{
		store:     store,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
	}
}

// Answer returns the generated answer plus attributions in retrieval-rank
// order. Empty retrieval is not an error: generation runs with empty context
// and the source list is empty. Nothing is cached between calls.
func (uc *AnswerUseCase) Answer(
	ctx context.Context,
	question string,
	history []domain.ChatTurn,
) (*domain.Answer, error) {
	index, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := index.Search(queryVector, uc.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	turns := make([]domain.ChatTurn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, domain.ChatTurn{
		Role:    domain.RoleUser,
		Content: question + "\n\nContext:\n" + contextBlock(hits),
	})

	text, err := uc.generator.GenerateAnswer(ctx, turns)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]domain.SourceAttribution, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, hit.Unit.Attribution())
	}

	return &domain.Answer{Text: text, Sources: sources}, nil
}

// contextBlock joins retrieved texts most-similar first, separated by blank lines.
func contextBlock(hits []domain.ScoredUnit) string {
	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		texts = append(texts, hit.Unit.Text)
	}
	return strings.Join(texts, "\n\n")
}
