package message

import (
	"time"

	"farmlink-be/internal/user"
)

type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Content    string
	Timestamp  time.Time
	IsRead     bool
	CreatedAt  time.Time
}

// Counterparty returns the other participant from userID's point of view.
func (m Message) Counterparty(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Conversation summarises every message exchanged with one counterparty.
type Conversation struct {
	Counterparty  user.Party
	LastMessage   string
	LastTimestamp time.Time
	Unread        int
}
