package domain

import "context"

// ThreadPort records the messaging side of a turn
type ThreadPort interface {
	// Open returns the open conversation of customer, creating it when none exists
	Open(ctx context.Context, customer string) (Conversation, error)
	// AddInbound stores a customer message; dup is true when externalID was already stored
	AddInbound(ctx context.Context, conversationID int64, content, externalID string) (m Message, dup bool, err error)
	// AddOutbound stores an assistant message with a pending delivery status
	AddOutbound(ctx context.Context, conversationID int64, content string) (Message, error)
	// SetDelivery updates the delivery status of an outbound message
	SetDelivery(ctx context.Context, messageID int64, status string) error
}

// ReaderPort reads conversations for operators
type ReaderPort interface {
	List(ctx context.Context, in ListInput) ([]Conversation, error)
	Get(ctx context.Context, id int64) (Thread, error)
}
