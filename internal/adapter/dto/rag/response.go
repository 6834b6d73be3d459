package rag

import "github.com/google/uuid"

// IndexResponse reports how many chunks were written
type IndexResponse struct {
	MeetingID uuid.UUID `json:"meeting_id"`
	Source    string    `json:"source"`
	Inserted  int       `json:"inserted"`
}

// ActionItem is a task extracted from the meeting
type ActionItem struct {
	Owner     string   `json:"owner"`
	Task      string   `json:"task"`
	Due       string   `json:"due,omitempty"`
	Timestamp *float64 `json:"timestamp,omitempty"`
}

// SummaryResponse is the structured meeting summary
type SummaryResponse struct {
	Overview    string       `json:"overview"`
	KeyPoints   []string     `json:"key_points"`
	Decisions   []string     `json:"decisions"`
	ActionItems []ActionItem `json:"action_items"`
}

// NarrationWindow describes one span of the recording
type NarrationWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// NarrationResponse is the window-by-window description of a meeting video
type NarrationResponse struct {
	MeetingID     uuid.UUID         `json:"meeting_id"`
	Model         string            `json:"model"`
	WindowSeconds int               `json:"window_seconds"`
	Windows       []NarrationWindow `json:"windows"`
}

// Citation points at a transcript span used in an answer
type Citation struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// ChatResponse is an answer with its citations
type ChatResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}
