package model

// EventType identifies one record in the streaming protocol
type EventType string

const (
	EventRunStarted      EventType = "run_started"
	EventSegmentProgress EventType = "segment_progress"
	EventRunCompleted    EventType = "run_completed"
	EventRunError        EventType = "run_error"
)

// StreamEvent is one newline-delimited JSON record on the progress stream.
// Events are emitted in original segment order regardless of the wall-clock
// order prepare work finishes in.
type StreamEvent struct {
	Type          EventType         `json:"type"`
	RunID         string            `json:"runId"`
	SegmentID     string            `json:"segmentId,omitempty"`
	SegmentIndex  int               `json:"segmentIndex,omitempty"`
	State         SegmentState      `json:"state,omitempty"`
	TotalSegments int               `json:"totalSegments,omitempty"`
	Message       string            `json:"message,omitempty"`
	Result        *SegmentResult    `json:"result,omitempty"`
	Response      *ValidateResponse `json:"response,omitempty"`
}
