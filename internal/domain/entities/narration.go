package entities

import (
	"github.com/google/uuid"
)

// NarrationWindow describes what is seen and heard in one span of a recording
type NarrationWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Narration is the window-by-window description of a meeting video. It is
// kept as a JSON artifact next to the upload, not in a table.
type Narration struct {
	MeetingID uuid.UUID         `json:"meeting_id"`
	Model     string            `json:"model"`
	Window    int               `json:"window_seconds"`
	Windows   []NarrationWindow `json:"windows"`
}
