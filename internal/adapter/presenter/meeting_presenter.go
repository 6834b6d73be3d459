package presenter

import (
	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	meetingUsecase "github.com/johnquangdev/meeting-intel/internal/usecase/meeting"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) meeting.MeetingResponse {
	return meeting.MeetingResponse{
		ID:        m.ID,
		Title:     m.Title,
		Consent:   m.Consent,
		Status:    string(m.Status),
		Error:     m.Error,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToMeetingDetailResponse adds the meeting's counts
func ToMeetingDetailResponse(d *meetingUsecase.Detail) meeting.MeetingDetailResponse {
	return meeting.MeetingDetailResponse{
		MeetingResponse: ToMeetingResponse(d.Meeting),
		Stats: meeting.StatsResponse{
			Utterances: d.Stats.Utterances,
			Chunks:     d.Stats.Chunks,
			Files:      d.Stats.Files,
			AsrJobs:    d.Stats.AsrJobs,
			HasSummary: d.Stats.HasSummary,
		},
	}
}

// ToListMeetingsResponse converts a meeting listing
func ToListMeetingsResponse(meetings []*entities.Meeting) meeting.ListMeetingsResponse {
	items := make([]meeting.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		items = append(items, ToMeetingResponse(m))
	}
	return meeting.ListMeetingsResponse{Items: items}
}

// ToUtterancesResponse converts utterances to their list items
func ToUtterancesResponse(utts []entities.Utterance) meeting.UtterancesResponse {
	items := make([]meeting.UtteranceItem, 0, len(utts))
	for _, u := range utts {
		items = append(items, meeting.UtteranceItem{
			Speaker:      u.Speaker,
			StartSeconds: u.StartSeconds,
			EndSeconds:   u.EndSeconds,
			Text:         u.Text,
		})
	}
	return meeting.UtterancesResponse{Items: items}
}

// ToFilesResponse converts signed file links
func ToFilesResponse(links []meetingUsecase.FileLink) meeting.FilesResponse {
	items := make([]meeting.FileResponse, 0, len(links))
	for _, l := range links {
		items = append(items, meeting.FileResponse{
			ID:        l.ID,
			Path:      l.Path,
			Kind:      string(l.Kind),
			SizeBytes: l.SizeBytes,
			MimeType:  l.MimeType,
			URL:       l.URL,
			CreatedAt: l.CreatedAt,
		})
	}
	return meeting.FilesResponse{Items: items}
}
