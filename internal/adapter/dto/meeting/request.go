package meeting

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=uploaded asr_started asr_done indexed summarized error"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// UtterancesRequest represents query parameters for listing utterances.
// start and end are parsed separately since both are optional numbers.
type UtterancesRequest struct {
	MeetingID string `query:"meeting_id" validate:"required,uuid"`
	Speaker   string `query:"speaker" validate:"omitempty,max=255"`
	Query     string `query:"q" validate:"omitempty,max=500"`
}

// MeetingQuery carries the meeting id of GET routes keyed by query string
type MeetingQuery struct {
	MeetingID string `query:"meeting_id" validate:"required,uuid"`
}

// FilesRequest represents query parameters for listing stored files
type FilesRequest struct {
	MeetingID string `query:"meeting_id" validate:"required,uuid"`
	Kind      string `query:"kind" validate:"omitempty,oneof=upload narration summary other"`
}
