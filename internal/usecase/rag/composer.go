package rag

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// SystemPrompt constrains answers to the retrieved sources
const SystemPrompt = "You are a helpful assistant answering questions about a meeting. " +
	"Use ONLY the provided sources. If unsure, say you don't know. " +
	"Cite sources with [SPEAKER @ mm:ss–mm:ss]. Be concise."

// NoContentAnswer is returned without calling the LLM when nothing matched
const NoContentAnswer = "I couldn't find any indexed content for this meeting that answers the question."

// Citation is a transcript span backing an answer
type Citation struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// Answer is the chat result
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// FormatTime renders seconds as mm:ss, minutes may exceed 59
func FormatTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// SourceLabel is the citation tag used in the context, e.g. [S1 @ 00:05–00:12]
func SourceLabel(c entities.Chunk) string {
	speaker := c.SpeakerLabel()
	if speaker == "" {
		speaker = "UNKNOWN"
	}
	return fmt.Sprintf("[%s @ %s–%s]", speaker, FormatTime(c.StartSeconds), FormatTime(c.EndSeconds))
}

// BuildContext renders chunks as labelled blocks separated by blank lines
func BuildContext(chunks []entities.Chunk) string {
	blocks := make([]string, len(chunks))
	for i, c := range chunks {
		blocks[i] = SourceLabel(c) + " " + c.Text
	}
	return strings.Join(blocks, "\n\n")
}

// BuildUserPrompt wraps the question and its sources
func BuildUserPrompt(question, context string) string {
	return fmt.Sprintf("Question: %s\n\nSources:\n%s\n\nAnswer with citations.", question, context)
}

// Citations copies speaker, span and text from the selected chunks, in order
func Citations(chunks []entities.Chunk) []Citation {
	out := make([]Citation, len(chunks))
	for i, c := range chunks {
		out[i] = Citation{
			Speaker: c.SpeakerLabel(),
			Start:   c.StartSeconds,
			End:     c.EndSeconds,
			Text:    c.Text,
		}
	}
	return out
}
