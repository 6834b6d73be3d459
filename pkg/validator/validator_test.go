package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	MeetingID string `json:"meeting_id" validate:"required,uuid"`
	K         int    `json:"k" validate:"omitempty,min=1,max=50"`
	Source    string `query:"source" validate:"omitempty,oneof=transcript summary"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&sample{MeetingID: "7f1b4f5e-3a8e-4a5d-9b2a-6c1d2e3f4a5b", K: 5}))

	err := v.Validate(&sample{K: 51, Source: "slides"})
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "meeting_id is required")
	assert.Contains(t, msg, "k must be at most 50")
	assert.Contains(t, msg, "source must be one of [transcript summary]")
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))
}
