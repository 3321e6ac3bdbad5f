package parse

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the canonical form of Message.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

type Message struct {
	ID         string
	Content    string
	Sender     string
	Timestamp  string // canonical "yyyy-MM-dd HH:mm:ss" when produced by Parse
	LineNumber int    // line of the message header in the source text, 0 if unknown
}

type MessageOption func(*Message)

func WithID(id string) MessageOption {
	return func(m *Message) {
		if id != "" {
			m.ID = id
		}
	}
}

func WithTimestamp(ts string) MessageOption {
	return func(m *Message) {
		if ts != "" {
			m.Timestamp = ts
		}
	}
}

func WithLineNumber(n int) MessageOption {
	return func(m *Message) { m.LineNumber = n }
}

// NewMessage builds a Message with a fresh id and the current time unless
// overridden by opts.
func NewMessage(content, sender string, opts ...MessageOption) Message {
	m := Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now().Format(TimestampLayout),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Conversation is the ordered set of messages parsed from one export.
type Conversation struct {
	ID         string
	UserID     string
	Date       string // "yyyy-MM-dd" the conversation is filed under
	SourcePath string
	Messages   []Message
}

func NewConversation(userID, date string, msgs []Message) *Conversation {
	return &Conversation{
		ID:       uuid.NewString(),
		UserID:   userID,
		Date:     date,
		Messages: msgs,
	}
}

func (c *Conversation) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Messages)
}
