package types

import "github.com/google/uuid"

// TagSuggestion scores an existing tag against a content item. Score is the
// cosine distance to the content embedding; lower means closer.
type TagSuggestion struct {
	TagID uuid.UUID `json:"tag_id"`
	Name  string    `json:"name"`
	Score float64   `json:"score"`
}

// KeywordSuggestion is a novel keyword candidate not already covered by an
// existing tag. Score is the cosine similarity to the full text; higher is
// better.
type KeywordSuggestion struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// SuggestionResult is ephemeral: cached with a TTL, never persisted as
// source of truth. Absence means "not yet computed".
type SuggestionResult struct {
	Existing  []TagSuggestion     `json:"existing"`
	Potential []KeywordSuggestion `json:"potential"`
}
