// Package domain defines messaging threads and their messages
package domain

import "time"

// Conversation statuses
const (
	StatusOpen   = "aberta"
	StatusClosed = "fechada"
)

// Sender is who wrote a message
type Sender string

// Senders
const (
	SenderCustomer  Sender = "cliente"
	SenderSeller    Sender = "vendedor"
	SenderAssistant Sender = "assistente"
)

// Delivery states of outbound messages
const (
	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
	// DeliverySkipped marks an answer kept but never pushed because delivery is disabled
	DeliverySkipped = "skipped"
)

// Conversation is one thread with a messaging customer
type Conversation struct {
	ID                 int64     `json:"id"`
	CustomerWhatsAppID string    `json:"customer_whatsapp_id"`
	AssignedUserID     *int64    `json:"assigned_user_id,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	MessageCount       int64     `json:"message_count"`
}

// Message is one line of a conversation
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderType     Sender    `json:"sender_type"`
	Content        string    `json:"content"`
	ExternalID     *string   `json:"external_id,omitempty"`
	DeliveryStatus string    `json:"delivery_status,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}

// Thread is a conversation with its messages oldest first
type Thread struct {
	Conversation
	Messages []Message `json:"messages"`
}

// ListInput filters conversation listings
type ListInput struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=aberta fechada"`
	Limit  int    `json:"limit,omitempty" validate:"omitempty,min=1,max=200"`
}
