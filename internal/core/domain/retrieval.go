package domain

// ScoredUnit is a retrieval hit: a unit with its similarity score.
type ScoredUnit struct {
	Unit  Unit    `json:"unit"`
	Score float64 `json:"score"`
}
