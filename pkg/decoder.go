package pkg

import (
	"bytes"
	"encoding/json"
	"strings"
)

// EventType classifies a decoded stream line.
type EventType int

const (
	// EventToken carries an incremental text delta.
	EventToken EventType = iota
	// EventDone marks the end-of-stream sentinel.
	EventDone
	// EventIgnored covers blank lines, comments, keep-alives and frames the
	// decoder could not use. Never an error.
	EventIgnored
)

// Event is one decoded frame from the upstream stream.
type Event struct {
	Type EventType
	Text string
}

// streamChunk is the subset of a provider stream frame the decoder reads.
// Some providers put the delta under "content", older ones under "text".
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
			Text    string `json:"text"`
		} `json:"delta"`
	} `json:"choices"`
}

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// StreamDecoder converts raw byte chunks from an SSE-style completion stream
// into ordered Token/Done/Ignored events. Chunk boundaries are arbitrary:
// partial lines, and even partial UTF-8 sequences, are buffered as bytes and
// only decoded once a full line is available. The decoder does no I/O.
//
// After the done sentinel has been seen the decoder is terminal and Feed
// becomes a no-op.
type StreamDecoder struct {
	pending []byte
	done    bool
}

// NewStreamDecoder returns a decoder ready to receive chunks.
func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{}
}

// Done reports whether the end-of-stream sentinel has been decoded.
func (d *StreamDecoder) Done() bool {
	return d.done
}

// Feed appends a chunk and returns all events completed by it, in the order
// their source lines appeared. Bytes after the last line break are held back
// for the next call.
func (d *StreamDecoder) Feed(chunk []byte) []Event {
	if d.done {
		return nil
	}
	d.pending = append(d.pending, chunk...)

	var events []Event
	for {
		i := bytes.IndexByte(d.pending, '\n')
		if i < 0 {
			break
		}
		line := string(d.pending[:i])
		d.pending = d.pending[i+1:]

		ev := decodeLine(strings.TrimSuffix(line, "\r"))
		events = append(events, ev)
		if ev.Type == EventDone {
			d.done = true
			d.pending = nil
			break
		}
	}
	return events
}

// decodeLine classifies a single complete line. Anything that is not a
// well-formed data payload is Ignored rather than an error: providers
// legitimately interleave blank lines, comments and keep-alives.
func decodeLine(line string) Event {
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{Type: EventIgnored}
	}
	payload := strings.TrimSpace(line[len(dataPrefix):])
	if payload == doneSentinel {
		return Event{Type: EventDone}
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return Event{Type: EventIgnored}
	}
	if len(chunk.Choices) == 0 {
		return Event{Type: EventIgnored}
	}
	delta := chunk.Choices[0].Delta
	text := delta.Content
	if text == "" {
		text = delta.Text
	}
	if text == "" {
		return Event{Type: EventIgnored}
	}
	return Event{Type: EventToken, Text: text}
}
