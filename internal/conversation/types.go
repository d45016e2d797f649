package conversation

import "errors"

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is one entry of a conversation.
type Message struct {
	Role    Role   `json:"role,omitempty"`
	Content string `json:"content"`

	// Plain is set when the source entry was a bare string instead of a
	// role/content record. Plain messages carry no metadata token overhead.
	Plain bool `json:"-"`
}

// Conversation is an ordered list of messages plus the JSON text of the
// source message array.
type Conversation struct {
	Messages []Message

	// Raw is the original message array re-encoded with spaced separators
	// and ASCII-only escapes.
	Raw []byte
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Messages)
}

// FromStrings builds a conversation of plain messages.
func FromStrings(contents ...string) *Conversation {
	msgs := make([]Message, len(contents))
	for i, c := range contents {
		msgs[i] = Message{Content: c, Plain: true}
	}
	return &Conversation{Messages: msgs, Raw: encodeRaw(msgs)}
}

// Parse errors.
var (
	ErrInvalidJSON      = errors.New("input is not valid JSON")
	ErrInvalidStructure = errors.New("input must be a message list or an object with a messages key")
)

// SessionStats describes what ParseSession skipped.
type SessionStats struct {
	Lines       int
	Skipped     int
	MalformedAt []int // first few malformed line numbers
}
