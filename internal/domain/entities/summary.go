package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActionItem is a task extracted from the meeting
type ActionItem struct {
	Owner string `json:"owner"`
	Task  string `json:"task"`
	Due   string `json:"due,omitempty"`
	// Timestamp is the second in the recording where the item was raised
	Timestamp *float64 `json:"timestamp,omitempty"`
}

// SummaryPayload is the structured minutes of a meeting
type SummaryPayload struct {
	Overview    string       `json:"overview"`
	KeyPoints   []string     `json:"key_points"`
	Decisions   []string     `json:"decisions"`
	ActionItems []ActionItem `json:"action_items"`
}

// Normalize replaces nil lists with empty ones so clients always get arrays
func (p *SummaryPayload) Normalize() {
	if p.KeyPoints == nil {
		p.KeyPoints = []string{}
	}
	if p.Decisions == nil {
		p.Decisions = []string{}
	}
	if p.ActionItems == nil {
		p.ActionItems = []ActionItem{}
	}
}

// IsEmpty reports whether the payload carries no content
func (p *SummaryPayload) IsEmpty() bool {
	return p.Overview == "" && len(p.KeyPoints) == 0 && len(p.Decisions) == 0 && len(p.ActionItems) == 0
}

// Summary is one-to-one with a meeting and is upserted
type Summary struct {
	MeetingID uuid.UUID                          `json:"meeting_id" gorm:"type:uuid;primaryKey"`
	Payload   datatypes.JSONType[SummaryPayload] `json:"payload" gorm:"type:jsonb;not null"`
	Model     string                             `json:"model" gorm:"type:text"`
	CreatedAt time.Time                          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time                          `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Summary) TableName() string {
	return "summaries"
}

// NewSummary wraps a payload for persistence
func NewSummary(meetingID uuid.UUID, payload SummaryPayload, model string) *Summary {
	payload.Normalize()
	return &Summary{
		MeetingID: meetingID,
		Payload:   datatypes.NewJSONType(payload),
		Model:     model,
	}
}
