package types

import (
	"time"

	"github.com/google/uuid"
)

// Concept maps a normalized semantic string to its embedding. The embedding
// is NULL until the concept is learned; the row may be reserved ahead of
// time so tag creation never blocks on the embedding provider.
type Concept struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Semantic  string    `gorm:"column:semantic;not null" json:"semantic"`
	Embedding Vector    `gorm:"column:embedding" json:"embedding,omitempty"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Concept) TableName() string { return "concept" }
