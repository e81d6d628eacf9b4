package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContentType string

const (
	ContentTypePlainText    ContentType = "PLAIN_TEXT"
	ContentTypeMarkdown     ContentType = "MARKDOWN"
	ContentTypeJSON         ContentType = "JSON"
	ContentTypeYoutubeVideo ContentType = "YOUTUBE_VIDEO"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypePlainText, ContentTypeMarkdown, ContentTypeJSON, ContentTypeYoutubeVideo:
		return true
	}
	return false
}

type Content struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Body        string         `gorm:"column:body;not null" json:"body"`
	ContentType ContentType    `gorm:"column:content_type;not null" json:"content_type"`
	Metadata    datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Content) TableName() string { return "content" }
