package types

import (
	"crypto/sha256"

	"github.com/google/uuid"

	"github.com/taghive/taghive-backend/internal/normalization"
)

func deterministicUUID(s string) uuid.UUID {
	h := sha256.Sum256([]byte(s))
	id, err := uuid.FromBytes(h[:16])
	if err != nil {
		return uuid.New()
	}
	return id
}

// TagID derives a tag's id from its owner and normalized name, so
// re-creating a tag with the same name resurrects the original row.
func TagID(ownerID uuid.UUID, name string) uuid.UUID {
	return deterministicUUID("tag|" + ownerID.String() + "|" + normalization.Semantic(name))
}

// ConceptID derives a concept's id from its normalized semantic string.
// Idempotent across re-learning.
func ConceptID(semantic string) uuid.UUID {
	return deterministicUUID("concept|" + normalization.Semantic(semantic))
}

// ContentTagID derives a join-row id, making attach idempotent.
func ContentTagID(contentID, tagID uuid.UUID) uuid.UUID {
	return deterministicUUID("content_tag|" + contentID.String() + "|" + tagID.String())
}
