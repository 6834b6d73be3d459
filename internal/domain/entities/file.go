package entities

import (
	"time"

	"github.com/google/uuid"
)

// FileKind classifies stored artifacts
type FileKind string

const (
	FileKindUpload    FileKind = "upload"
	FileKindNarration FileKind = "narration"
	FileKindSummary   FileKind = "summary"
	FileKindOther     FileKind = "other"
)

// IsValid reports whether k is a known kind
func (k FileKind) IsValid() bool {
	switch k {
	case FileKindUpload, FileKindNarration, FileKindSummary, FileKindOther:
		return true
	default:
		return false
	}
}

// File is metadata for an object kept in storage
type File struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	// Path is the object key inside the storage bucket
	Path      string    `json:"path" gorm:"type:text;not null"`
	PublicURL *string   `json:"public_url,omitempty" gorm:"type:text"`
	Kind      FileKind  `json:"kind" gorm:"type:text;not null"`
	SizeBytes *int64    `json:"size_bytes,omitempty"`
	MimeType  *string   `json:"mime_type,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (File) TableName() string {
	return "files"
}
