package presenter

import (
	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/rag"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	ragUsecase "github.com/johnquangdev/meeting-intel/internal/usecase/rag"
)

// ToIndexResponse converts an index run result
func ToIndexResponse(r *ragUsecase.IndexResult) rag.IndexResponse {
	return rag.IndexResponse{
		MeetingID: r.MeetingID,
		Source:    string(r.Source),
		Inserted:  r.Inserted,
	}
}

// ToSummaryResponse converts a summary payload. Lists are never null.
func ToSummaryResponse(p *entities.SummaryPayload) rag.SummaryResponse {
	resp := rag.SummaryResponse{
		Overview:    p.Overview,
		KeyPoints:   append([]string{}, p.KeyPoints...),
		Decisions:   append([]string{}, p.Decisions...),
		ActionItems: make([]rag.ActionItem, 0, len(p.ActionItems)),
	}
	for _, a := range p.ActionItems {
		resp.ActionItems = append(resp.ActionItems, rag.ActionItem{
			Owner:     a.Owner,
			Task:      a.Task,
			Due:       a.Due,
			Timestamp: a.Timestamp,
		})
	}
	return resp
}

// ToNarrationResponse converts a stored narration
func ToNarrationResponse(n *entities.Narration) rag.NarrationResponse {
	resp := rag.NarrationResponse{
		MeetingID:     n.MeetingID,
		Model:         n.Model,
		WindowSeconds: n.Window,
		Windows:       make([]rag.NarrationWindow, 0, len(n.Windows)),
	}
	for _, w := range n.Windows {
		resp.Windows = append(resp.Windows, rag.NarrationWindow{Start: w.Start, End: w.End, Text: w.Text})
	}
	return resp
}

// ToChatResponse converts a chat answer
func ToChatResponse(a *ragUsecase.Answer) rag.ChatResponse {
	citations := make([]rag.Citation, 0, len(a.Citations))
	for _, c := range a.Citations {
		citations = append(citations, rag.Citation{
			Speaker: c.Speaker,
			Start:   c.Start,
			End:     c.End,
			Text:    c.Text,
		})
	}
	return rag.ChatResponse{Answer: a.Answer, Citations: citations}
}
