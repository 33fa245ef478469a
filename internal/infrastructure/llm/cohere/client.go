package cohere

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/infrastructure/resilience"
)

const (
	defaultBaseURL = "https://api.cohere.com"

	// Fixed model identifiers, one per operation.
	defaultEmbedModel  = "embed-english-v3.0"
	defaultEnrichModel = "command-r-plus"
	defaultAnswerModel = "command-a-03-2025"

	embedInputDocument = "search_document"
	embedInputQuery    = "search_query"
)

type Config struct {
	BaseURL     string
	APIKey      string
	EmbedModel  string
	EnrichModel string
	AnswerModel string
}

// Client is the single configured connection to the Cohere v2 API, reused
// process-wide by every adapter built on top of it.
type Client struct {
	baseURL     string
	apiKey      string
	embedModel  string
	enrichModel string
	answerModel string
	httpClient  *http.Client
	exec        *resilience.Executor
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	embedModel := cfg.EmbedModel
	if embedModel == "" {
		embedModel = defaultEmbedModel
	}
	enrichModel := cfg.EnrichModel
	if enrichModel == "" {
		enrichModel = defaultEnrichModel
	}
	answerModel := cfg.AnswerModel
	if answerModel == "" {
		answerModel = defaultAnswerModel
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		embedModel:  embedModel,
		enrichModel: enrichModel,
		answerModel: answerModel,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		exec:        resilience.NewExecutor(resilience.DefaultConfig()),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

// textContent concatenates only the textual segments of a chat response;
// any other segment kinds are discarded.
func (r chatResponse) textContent() string {
	var b strings.Builder
	for _, part := range r.Message.Content {
		if part.Type == "text" {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func (c *Client) chat(ctx context.Context, operation, model string, messages []chatMessage, retryable bool) (string, error) {
	payload := map[string]any{
		"model":    model,
		"messages": messages,
	}

	classifier := classifyCohereError
	if !retryable {
		classifier = classifySingleAttempt
	}

	var response chatResponse
	err := c.exec.Execute(ctx, operation, func(ctx context.Context) error {
		response = chatResponse{}
		return c.postJSON(ctx, "/v2/chat", payload, &response, operation)
	}, classifier)
	if err != nil {
		return "", wrapServiceError(operation, err)
	}
	return response.textContent(), nil
}

// Embedder implements ports.Embedder against the v2 embed endpoint.
type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.client.embed(ctx, texts, embedInputDocument)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.client.embed(ctx, []string{text}, embedInputQuery)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, domain.WrapError(domain.ErrEnrichmentService, "embed query", errEmptyEmbedding)
	}
	return vectors[0], nil
}

func (c *Client) embed(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := map[string]any{
		"model":           c.embedModel,
		"texts":           texts,
		"input_type":      inputType,
		"embedding_types": []string{"float"},
	}

	var response struct {
		Embeddings struct {
			Float [][]float32 `json:"float"`
		} `json:"embeddings"`
	}
	err := c.exec.Execute(ctx, "embed", func(ctx context.Context) error {
		return c.postJSON(ctx, "/v2/embed", payload, &response, "embed")
	}, classifyCohereError)
	if err != nil {
		return nil, wrapServiceError("embed", err)
	}
	return response.Embeddings.Float, nil
}

// Enricher implements ports.EnrichmentService via the chat endpoint.
type Enricher struct {
	client *Client
}

func NewEnricher(client *Client) *Enricher {
	return &Enricher{client: client}
}

func (e *Enricher) Summarize(ctx context.Context, text string) (string, error) {
	messages := []chatMessage{{Role: domain.RoleUser, Content: buildSummaryPrompt(text)}}
	return e.client.chat(ctx, "summarize", e.client.enrichModel, messages, true)
}

func (e *Enricher) ExtractEntities(ctx context.Context, text string) (string, error) {
	messages := []chatMessage{{Role: domain.RoleUser, Content: buildEntityPrompt(text)}}
	return e.client.chat(ctx, "extract_entities", e.client.enrichModel, messages, true)
}

// Generator implements ports.AnswerGenerator. Generation is never retried;
// the caller decides whether to wrap with retry/backoff.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateAnswer(ctx context.Context, turns []domain.ChatTurn) (string, error) {
	messages := make([]chatMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}
	return g.client.chat(ctx, "generate_answer", g.client.answerModel, messages, false)
}
