package domain

import (
	"context"
	"time"
)

type Message struct {
	ID            string    `json:"id"`
	PartnershipID string    `json:"partnership_id"`
	SenderID      string    `json:"sender_id"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

// Conversation is a partnership seen from one side, with the other side's name.
type Conversation struct {
	Partnership     Partnership `json:"partnership"`
	CounterpartName string      `json:"counterpart_name"`
	CounterpartLogo *string     `json:"counterpart_logo"`
}

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	// ListByPartnership returns newest first; before pages backwards when set.
	ListByPartnership(ctx context.Context, partnershipID string, before *time.Time, limit int) ([]Message, error)
}

// MessagePublisher pushes a stored message to the recipient's open connections.
type MessagePublisher interface {
	PublishMessage(recipientID string, message *Message)
}

type ChatUsecase interface {
	ListConversations(ctx context.Context, profileID string, role Role) ([]Conversation, error)
	ListMessages(ctx context.Context, profileID string, role Role, partnershipID string, before *time.Time, limit int) ([]Message, error)
	SendMessage(ctx context.Context, profileID string, role Role, partnershipID, body string) (*Message, error)
}
