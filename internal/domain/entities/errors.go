package entities

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Meeting errors
	ErrMeetingNotFound       = errors.New("meeting not found")
	ErrInvalidMeetingStatus  = errors.New("invalid meeting status")
	ErrInvalidTransition     = errors.New("invalid meeting status transition")
	ErrTranscriptUnavailable = errors.New("transcript not available")

	// Retrieval errors
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrInvalidSource     = errors.New("invalid chunk source")

	// Summary errors
	ErrSummaryNotFound = errors.New("summary not found")

	// Narration errors
	ErrNarrationNotFound = errors.New("narration not found")

	// ASR errors
	ErrAsrJobNotFound = errors.New("asr job not found")
)

// DimensionError reports a vector whose size differs from the chunks column
type DimensionError struct {
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: column expects %d, got %d", ErrDimensionMismatch, e.Expected, e.Got)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}
