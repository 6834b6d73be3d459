package rag

// IndexRequest triggers (re)indexing of a meeting
type IndexRequest struct {
	MeetingID string `json:"meeting_id" validate:"required,uuid"`
	Source    string `json:"source,omitempty" validate:"omitempty,oneof=transcript summary"`
}

// ChatFilters narrows the chunks a chat answer may cite
type ChatFilters struct {
	Speaker   string   `json:"speaker,omitempty" validate:"omitempty,max=255"`
	TimeStart *float64 `json:"time_start,omitempty" validate:"omitempty,min=0"`
	TimeEnd   *float64 `json:"time_end,omitempty" validate:"omitempty,min=0"`
}

// ChatRequest is a question about one meeting
type ChatRequest struct {
	MeetingID string       `json:"meeting_id" validate:"required,uuid"`
	Query     string       `json:"query" validate:"required,max=4000"`
	K         int          `json:"k,omitempty" validate:"omitempty,min=1,max=50"`
	Filters   *ChatFilters `json:"filters,omitempty"`
	Rerank    bool         `json:"rerank,omitempty"`
}
