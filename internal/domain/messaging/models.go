package messaging

import (
	"errors"
	"strings"
	"time"

	"spendpal/internal/domain/request"
)

var (
	ErrConversationRequired = errors.New("conversation ID is required")
	ErrRecipientRequired    = errors.New("recipient is required")
	ErrEmptyMessage         = errors.New("message text is required")
)

// Conversation summarizes a thread with one participant
type Conversation struct {
	ID          string    `json:"id"`
	Participant string    `json:"participant"`
	LastMessage string    `json:"lastMessage"`
	Timestamp   time.Time `json:"timestamp"`
	UnreadCount int       `json:"unreadCount"`
	Avatar      string    `json:"avatar"`
}

// Message is append-only within its conversation
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"`
	Recipient      string    `json:"recipient"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
	Read           bool      `json:"read"`
	RequestID      string    `json:"requestId,omitempty"`
}

// SendParams contains the fields of an outgoing message
type SendParams struct {
	ConversationID string
	Recipient      string
	Text           string
	RequestID      string
}

func (p SendParams) Validate() error {
	if p.ConversationID == "" {
		return ErrConversationRequired
	}
	if p.Recipient == "" {
		return ErrRecipientRequired
	}
	if strings.TrimSpace(p.Text) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// Outgoing builds a message sent by the current user.
func Outgoing(id string, p SendParams, at time.Time) Message {
	return Message{
		ID:             id,
		ConversationID: p.ConversationID,
		Sender:         request.Self,
		Recipient:      p.Recipient,
		Text:           p.Text,
		Timestamp:      at,
		RequestID:      p.RequestID,
	}
}

// ApplySend updates the summary of the conversation m belongs to, creating
// the conversation when it does not exist yet.
func ApplySend(convs []Conversation, m Message, avatar string) []Conversation {
	out := make([]Conversation, len(convs))
	copy(out, convs)
	for i := range out {
		if out[i].ID == m.ConversationID {
			out[i].LastMessage = m.Text
			out[i].Timestamp = m.Timestamp
			return out
		}
	}
	return append(out, Conversation{
		ID:          m.ConversationID,
		Participant: m.Recipient,
		LastMessage: m.Text,
		Timestamp:   m.Timestamp,
		Avatar:      avatar,
	})
}

// MarkThreadRead marks every message of conversationID addressed to the
// current user as read and zeroes the conversation's unread count.
func MarkThreadRead(convs []Conversation, msgs []Message, conversationID string) ([]Conversation, []Message) {
	nextConvs := make([]Conversation, len(convs))
	for i, c := range convs {
		if c.ID == conversationID {
			c.UnreadCount = 0
		}
		nextConvs[i] = c
	}

	nextMsgs := make([]Message, len(msgs))
	for i, m := range msgs {
		if m.ConversationID == conversationID && m.Recipient == request.Self {
			m.Read = true
		}
		nextMsgs[i] = m
	}
	return nextConvs, nextMsgs
}

// Thread returns the messages of conversationID in send order.
func Thread(msgs []Message, conversationID string) []Message {
	var out []Message
	for _, m := range msgs {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out
}

// TotalUnread sums unread counts across conversations.
func TotalUnread(convs []Conversation) int {
	total := 0
	for _, c := range convs {
		total += c.UnreadCount
	}
	return total
}

// Find looks up a conversation by id.
func Find(convs []Conversation, id string) (Conversation, bool) {
	for _, c := range convs {
		if c.ID == id {
			return c, true
		}
	}
	return Conversation{}, false
}
