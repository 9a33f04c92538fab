package importer

import "fmt"

// Level classifies a diagnostic message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is one diagnostic produced while processing a record or item.
type Message struct {
	Level    Level  `json:"level"`
	EntityID string `json:"entity_id,omitempty"`
	Text     string `json:"text"`
	Err      string `json:"error,omitempty"`
}

// Diagnostics accumulates the messages of an import run. The bulk applier
// additionally uses short-lived buffers so one item's messages never leak
// into the next item's outcome.
type Diagnostics struct {
	messages []Message
}

// NewDiagnostics creates an empty diagnostics buffer.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Info records an informational message for an entity.
func (d *Diagnostics) Info(entityID, format string, args ...any) {
	d.messages = append(d.messages, Message{
		Level:    LevelInfo,
		EntityID: entityID,
		Text:     fmt.Sprintf(format, args...),
	})
}

// Warn records a warning for an entity.
func (d *Diagnostics) Warn(entityID, format string, args ...any) {
	d.messages = append(d.messages, Message{
		Level:    LevelWarning,
		EntityID: entityID,
		Text:     fmt.Sprintf(format, args...),
	})
}

// Error records an error tied to an entity. err may be nil.
func (d *Diagnostics) Error(entityID string, err error, format string, args ...any) {
	m := Message{
		Level:    LevelError,
		EntityID: entityID,
		Text:     fmt.Sprintf(format, args...),
	}
	if err != nil {
		m.Err = err.Error()
	}
	d.messages = append(d.messages, m)
}

// Clear drops all buffered messages.
func (d *Diagnostics) Clear() {
	d.messages = d.messages[:0]
}

// Append moves all messages from other into this buffer.
func (d *Diagnostics) Append(other *Diagnostics) {
	if other == nil {
		return
	}
	d.messages = append(d.messages, other.messages...)
}

// Messages returns a copy of the buffered messages.
func (d *Diagnostics) Messages() []Message {
	out := make([]Message, len(d.messages))
	copy(out, d.messages)
	return out
}

// HasErrors reports whether any error-level message was recorded.
func (d *Diagnostics) HasErrors() bool {
	for _, m := range d.messages {
		if m.Level == LevelError {
			return true
		}
	}
	return false
}
