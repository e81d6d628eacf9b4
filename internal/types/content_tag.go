package types

import (
	"time"

	"github.com/google/uuid"
)

// ContentTag is the content<->tag join row. Append/remove only, no update.
type ContentTag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentID uuid.UUID `gorm:"type:uuid;not null;index" json:"content_id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;index" json:"tag_id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ContentTag) TableName() string { return "content_tag" }
