// Package stream decodes server-sent-event responses from the messages API
// into typed protocol events, and provides derived read-only views
// (projections) over the event sequence.
//
// The decoder is a pull-based iterator: nothing is read from the transport
// until the consumer asks for the next event, and abandoning iteration is a
// valid, non-erroneous termination.
package stream

import ai "github.com/calebmweir/parley"

// EventType identifies the kind of protocol event.
type EventType string

const (
	// MessageStart opens a streamed reply and carries the message shell
	// (id, model, role, input usage) with empty content.
	MessageStart EventType = "message_start"

	// ContentBlockStart opens content block Index and carries its initial
	// shape (text, tool_use id/name, thinking, ...).
	ContentBlockStart EventType = "content_block_start"

	// ContentBlockDelta carries an incremental update to block Index.
	ContentBlockDelta EventType = "content_block_delta"

	// ContentBlockStop closes content block Index.
	ContentBlockStop EventType = "content_block_stop"

	// MessageDelta carries top-level message updates: stop reason, stop
	// sequence, and cumulative output usage.
	MessageDelta EventType = "message_delta"

	// MessageStop closes the streamed reply.
	MessageStop EventType = "message_stop"

	// Ping is a keep-alive. It carries no payload.
	Ping EventType = "ping"

	// Error reports a mid-stream error frame from the server.
	Error EventType = "error"
)

// Event is one decoded protocol event. Type selects the variant; only the
// fields belonging to that variant are populated. Events are immutable once
// produced.
type Event struct {
	Type EventType

	// Index identifies the content block for ContentBlockStart,
	// ContentBlockDelta and ContentBlockStop events.
	Index int

	// Message carries the message shell for MessageStart events.
	Message *ai.Response

	// Block carries the opening block for ContentBlockStart events.
	Block *ai.ContentBlock

	// Delta carries the classified payload for ContentBlockDelta events.
	Delta *Delta

	// StopReason, StopSequence and Usage are set for MessageDelta events.
	StopReason   ai.StopReason
	StopSequence string
	Usage        *ai.Usage

	// ErrorKind and ErrorMessage are set for Error events.
	ErrorKind    string
	ErrorMessage string
}

// EventSource is a pull-based, finite, non-restartable sequence of events.
// The Decoder implements it over a transport; projections and the runner
// consume through it so tests can substitute in-memory sources.
type EventSource interface {
	// Next advances to the next event, returning false at end of sequence
	// or on error.
	Next() bool

	// Event returns the current event. Valid only after Next returned true.
	Event() Event

	// Err returns the first error encountered, or nil if the sequence
	// ended normally.
	Err() error
}

// SliceSource replays a fixed slice of events. Each projection requires its
// own pass over the sequence; SliceSource makes fanning a decoded sequence
// out to several projections cheap.
type SliceSource struct {
	events []Event
	pos    int
}

// NewSliceSource creates an EventSource over the given events.
func NewSliceSource(events []Event) *SliceSource {
	return &SliceSource{events: events, pos: -1}
}

// Next advances to the next event.
func (s *SliceSource) Next() bool {
	if s.pos+1 >= len(s.events) {
		return false
	}
	s.pos++
	return true
}

// Event returns the current event.
func (s *SliceSource) Event() Event { return s.events[s.pos] }

// Err always returns nil.
func (s *SliceSource) Err() error { return nil }

// Collect drains an EventSource into a slice, for fan-out or inspection.
func Collect(src EventSource) ([]Event, error) {
	var events []Event
	for src.Next() {
		events = append(events, src.Event())
	}
	return events, src.Err()
}
