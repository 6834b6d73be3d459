package rag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// DefaultChunkMaxChars bounds the text of one transcript chunk
const DefaultChunkMaxChars = 900

// ChunkUtterances merges consecutive utterances into chunks of at most
// maxChars characters. A chunk takes the speaker of its first utterance and
// spans from its first start to its last end. Empty texts are skipped and a
// single utterance longer than maxChars becomes its own chunk.
func ChunkUtterances(utts []entities.Utterance, maxChars int) []entities.Chunk {
	if maxChars <= 0 {
		maxChars = DefaultChunkMaxChars
	}

	chunks := make([]entities.Chunk, 0)
	var (
		buf     strings.Builder
		runes   int
		speaker string
		start   float64
		end     float64
	)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		spk := speaker
		topic := entities.ChunkTopicASR
		chunks = append(chunks, entities.Chunk{
			Speaker:      &spk,
			StartSeconds: start,
			EndSeconds:   end,
			Topic:        &topic,
			Text:         buf.String(),
			Source:       entities.ChunkSourceTranscript,
		})
		buf.Reset()
		runes = 0
	}

	for _, u := range utts {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}

		n := utf8.RuneCountInString(text)

		switch {
		case buf.Len() == 0:
		case runes+1+n <= maxChars:
			buf.WriteByte(' ')
			buf.WriteString(text)
			runes += 1 + n
			end = u.EndSeconds
			continue
		default:
			flush()
		}

		buf.WriteString(text)
		runes = n
		speaker = u.Speaker
		start = u.StartSeconds
		end = u.EndSeconds
	}
	flush()

	return chunks
}

// ChunkSummary turns a summary into one chunk per item, spoken by SUMMARY
func ChunkSummary(p entities.SummaryPayload) []entities.Chunk {
	chunks := make([]entities.Chunk, 0, 1+len(p.KeyPoints)+len(p.Decisions)+len(p.ActionItems))

	add := func(topic, text string, at float64) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		speaker := entities.SummarySpeaker
		chunks = append(chunks, entities.Chunk{
			Speaker:      &speaker,
			StartSeconds: at,
			EndSeconds:   at,
			Topic:        &topic,
			Text:         text,
			Source:       entities.ChunkSourceSummary,
		})
	}

	add(entities.ChunkTopicOverview, p.Overview, 0)
	for _, kp := range p.KeyPoints {
		add(entities.ChunkTopicKeyPoint, kp, 0)
	}
	for _, d := range p.Decisions {
		add(entities.ChunkTopicDecision, d, 0)
	}
	for _, a := range p.ActionItems {
		var at float64
		if a.Timestamp != nil && *a.Timestamp > 0 {
			at = *a.Timestamp
		}
		add(entities.ChunkTopicActionItem, formatActionItem(a), at)
	}

	return chunks
}

func formatActionItem(a entities.ActionItem) string {
	if strings.TrimSpace(a.Task) == "" {
		return ""
	}
	owner := strings.TrimSpace(a.Owner)
	if owner == "" {
		owner = "unassigned"
	}
	due := strings.TrimSpace(a.Due)
	if due == "" {
		due = "n/a"
	}
	return fmt.Sprintf("%s: %s (due %s)", owner, strings.TrimSpace(a.Task), due)
}
