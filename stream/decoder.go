package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	ai "github.com/calebmweir/parley"
)

// doneSentinel is a literal data payload some gateways append to mark the
// end of a stream. It is skipped without attempting a JSON parse.
const doneSentinel = "[DONE]"

// Decoder turns the line-oriented text of a streaming response into a lazy
// sequence of protocol events.
//
// The wire format is one event per line group:
//
//	event: content_block_delta
//	data: {"type":"content_block_delta","index":0,"delta":{...}}
//
// Blank lines and lines starting with ":" are ignored. Unknown event types
// and data payloads that fail to parse yield no event and no error; one
// malformed frame never aborts the stream. The sequence ends when the
// underlying reader does.
type Decoder struct {
	scanner   *bufio.Scanner
	closer    io.Closer
	eventType string
	evt       Event
	err       error
	done      bool
}

// NewDecoder creates a Decoder over a streaming response body. If r also
// implements io.Closer, Close will close it.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	d := &Decoder{scanner: sc}
	if c, ok := r.(io.Closer); ok {
		d.closer = c
	}
	return d
}

// Next advances to the next decodable event, returning false at end of
// stream or on a transport read error.
func (d *Decoder) Next() bool {
	if d.done || d.err != nil {
		return false
	}
	for d.scanner.Scan() {
		line := strings.TrimSuffix(d.scanner.Text(), "\r")
		switch {
		case line == "":
			// Frame separator.
		case strings.HasPrefix(line, ":"):
			// Comment / keep-alive.
		case strings.HasPrefix(line, "event:"):
			d.eventType = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "data:"):
			payload := strings.TrimSpace(line[len("data:"):])
			if payload == doneSentinel {
				continue
			}
			if evt, ok := decodeEvent(d.eventType, []byte(payload)); ok {
				d.evt = evt
				return true
			}
		}
	}
	d.done = true
	d.err = d.scanner.Err()
	return false
}

// Event returns the current event. Valid only after Next returned true.
func (d *Decoder) Event() Event { return d.evt }

// Err returns the transport read error, if any. A normally exhausted
// stream returns nil.
func (d *Decoder) Err() error { return d.err }

// Close closes the underlying reader, if it is closable. Safe to call
// after abandoning iteration early.
func (d *Decoder) Close() error {
	d.done = true
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

var _ EventSource = (*Decoder)(nil)

// Wire shapes for the JSON payloads of each event type.
type (
	wireMessageStart struct {
		Message ai.Response `json:"message"`
	}
	wireBlockStart struct {
		Index        int             `json:"index"`
		ContentBlock ai.ContentBlock `json:"content_block"`
	}
	wireBlockDelta struct {
		Index int             `json:"index"`
		Delta json.RawMessage `json:"delta"`
	}
	wireBlockStop struct {
		Index int `json:"index"`
	}
	wireMessageDelta struct {
		Delta struct {
			StopReason   ai.StopReason `json:"stop_reason"`
			StopSequence string        `json:"stop_sequence"`
		} `json:"delta"`
		Usage *ai.Usage `json:"usage"`
	}
	wireError struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
)

// decodeEvent parses one data payload against the current event type.
// Unknown event types and malformed payloads return ok=false so the caller
// skips the frame and keeps reading.
func decodeEvent(eventType string, data []byte) (Event, bool) {
	if !gjson.ValidBytes(data) {
		return Event{}, false
	}

	switch eventType {
	case "message_start":
		var w wireMessageStart
		if err := json.Unmarshal(data, &w); err != nil {
			return Event{}, false
		}
		return Event{Type: MessageStart, Message: &w.Message}, true

	case "content_block_start":
		var w wireBlockStart
		if err := json.Unmarshal(data, &w); err != nil {
			return Event{}, false
		}
		return Event{Type: ContentBlockStart, Index: w.Index, Block: &w.ContentBlock}, true

	case "content_block_delta":
		var w wireBlockDelta
		if err := json.Unmarshal(data, &w); err != nil {
			return Event{}, false
		}
		delta := ParseDelta(w.Delta)
		return Event{Type: ContentBlockDelta, Index: w.Index, Delta: &delta}, true

	case "content_block_stop":
		var w wireBlockStop
		if err := json.Unmarshal(data, &w); err != nil {
			return Event{}, false
		}
		return Event{Type: ContentBlockStop, Index: w.Index}, true

	case "message_delta":
		var w wireMessageDelta
		if err := json.Unmarshal(data, &w); err != nil {
			return Event{}, false
		}
		return Event{
			Type:         MessageDelta,
			StopReason:   w.Delta.StopReason,
			StopSequence: w.Delta.StopSequence,
			Usage:        w.Usage,
		}, true

	case "message_stop":
		return Event{Type: MessageStop}, true

	case "ping":
		return Event{Type: Ping}, true

	case "error":
		var w wireError
		if err := json.Unmarshal(data, &w); err != nil {
			return Event{}, false
		}
		return Event{Type: Error, ErrorKind: w.Error.Type, ErrorMessage: w.Error.Message}, true
	}

	return Event{}, false
}
