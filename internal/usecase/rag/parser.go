package rag

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// ErrEmptySummary is returned when the model produced no usable fields
var ErrEmptySummary = errors.New("summary has no content")

// summaryResponse is the loose shape models actually return. Lists of
// objects with a text field are accepted where strings are expected.
type summaryResponse struct {
	Overview    string          `json:"overview"`
	KeyPoints   flexibleStrings `json:"key_points"`
	Decisions   flexibleStrings `json:"decisions"`
	ActionItems []actionItemRaw `json:"action_items"`
}

type actionItemRaw struct {
	Owner     string            `json:"owner"`
	Task      string            `json:"task"`
	Due       string            `json:"due"`
	Timestamp flexibleTimestamp `json:"timestamp"`
}

type flexibleStrings []string

func (f *flexibleStrings) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nil
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("unexpected list item %s", item)
		}
		if t := strings.TrimSpace(obj.Text); t != "" {
			out = append(out, t)
		}
	}
	*f = out
	return nil
}

// flexibleTimestamp accepts seconds as a number, a numeric string or mm:ss
type flexibleTimestamp struct {
	value *float64
}

func (t *flexibleTimestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		t.value = &n
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Unknown shapes are dropped rather than failing the whole summary
		return nil
	}
	if v, ok := parseClock(s); ok {
		t.value = &v
	}
	return nil
}

func parseClock(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	var total float64
	for _, part := range strings.Split(s, ":") {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, false
		}
		total = total*60 + v
	}
	return total, true
}

// ParseSummary extracts the summary JSON from a model response
func ParseSummary(content string) (*entities.SummaryPayload, error) {
	jsonString := extractJSON(content)

	var raw summaryResponse
	if err := json.Unmarshal([]byte(jsonString), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	payload := &entities.SummaryPayload{
		Overview:    strings.TrimSpace(raw.Overview),
		KeyPoints:   raw.KeyPoints,
		Decisions:   raw.Decisions,
		ActionItems: make([]entities.ActionItem, 0, len(raw.ActionItems)),
	}
	for _, a := range raw.ActionItems {
		task := strings.TrimSpace(a.Task)
		if task == "" {
			continue
		}
		payload.ActionItems = append(payload.ActionItems, entities.ActionItem{
			Owner:     strings.TrimSpace(a.Owner),
			Task:      task,
			Due:       strings.TrimSpace(a.Due),
			Timestamp: a.Timestamp.value,
		})
	}
	payload.Normalize()

	if payload.IsEmpty() {
		return nil, ErrEmptySummary
	}
	return payload, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}
	content = strings.TrimSpace(content)

	// Fall back to the outermost object when the model added prose
	if !strings.HasPrefix(content, "{") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start != -1 && end > start {
			content = content[start : end+1]
		}
	}

	return content
}
