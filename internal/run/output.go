package run

import (
	"encoding/json"
	"fmt"
	"time"
)

// Stream identifies which process stream an output line was written to.
type Stream int

const (
	Stdout Stream = 0
	Stderr Stream = 1
)

// OutputLine is one line of captured run output. On the wire it is the
// tuple [time_ms, stream, text].
type OutputLine struct {
	Time   time.Time
	Stream Stream
	Text   string
}

func (l *OutputLine) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("output line: %w", err)
	}
	if len(tuple) != 3 {
		return fmt.Errorf("output line: expected 3 elements, got %d", len(tuple))
	}
	var ms int64
	if err := json.Unmarshal(tuple[0], &ms); err != nil {
		return fmt.Errorf("output line time: %w", err)
	}
	var stream int
	if err := json.Unmarshal(tuple[1], &stream); err != nil {
		return fmt.Errorf("output line stream: %w", err)
	}
	var text string
	if err := json.Unmarshal(tuple[2], &text); err != nil {
		return fmt.Errorf("output line text: %w", err)
	}
	l.Time = time.UnixMilli(ms)
	l.Stream = Stream(stream)
	l.Text = text
	return nil
}

func (l OutputLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.Time.UnixMilli(), int(l.Stream), l.Text})
}
