package domain

// Turn roles follow the remote chat API contract.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one turn of the caller-held conversation. The pipeline treats
// history as an immutable input per call; the caller appends new turns.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Answer is the result of one question: generated text plus the retrieved
// units' attributions in retrieval-rank order.
type Answer struct {
	Text    string              `json:"text"`
	Sources []SourceAttribution `json:"sources"`
}
