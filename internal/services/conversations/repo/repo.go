// Package repo provides the conversations repository for Postgres
package repo

import (
	"context"
	"fmt"
	"strings"

	"tdsdesk/internal/modkit/repokit"
	"tdsdesk/internal/platform/store"
	"tdsdesk/internal/services/conversations/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the conversations repository
type Storage interface {
	OpenConversation(ctx context.Context, customer string) (domain.Conversation, error)
	TouchConversation(ctx context.Context, id int64) error
	InsertMessage(ctx context.Context, m domain.Message) (domain.Message, error)
	SetDelivery(ctx context.Context, messageID int64, status string) error
	ListConversations(ctx context.Context, status string, limit int) ([]domain.Conversation, error)
	GetConversation(ctx context.Context, id int64) (domain.Conversation, error)
	ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error)
}

type pg struct{ q repokit.Queryer }

const convColumns = `c.id, c.customer_whatsapp_id, c.assigned_user_id, c.status, c.created_at, c.updated_at`

const msgColumns = `id, conversation_id, sender_type, content, external_id, delivery_status, sent_at`

// OpenConversation implements Storage
// the partial unique index on open threads makes this race free
func (s *pg) OpenConversation(ctx context.Context, customer string) (domain.Conversation, error) {
	return scanConversation(s.q.QueryRow(ctx, `
		INSERT INTO conversations AS c (customer_whatsapp_id, status)
		VALUES ($1, 'aberta')
		ON CONFLICT (customer_whatsapp_id) WHERE status = 'aberta'
		DO UPDATE SET updated_at = now()
		RETURNING `+convColumns+`, 0::bigint`, customer))
}

// TouchConversation implements Storage
func (s *pg) TouchConversation(ctx context.Context, id int64) error {
	return store.ExecOne(ctx, s.q, `UPDATE conversations SET updated_at = now() WHERE id = $1`, id)
}

// InsertMessage implements Storage
func (s *pg) InsertMessage(ctx context.Context, m domain.Message) (domain.Message, error) {
	return scanMessage(s.q.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_type, content, external_id, delivery_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+msgColumns,
		m.ConversationID, string(m.SenderType), m.Content, m.ExternalID, m.DeliveryStatus,
	))
}

// SetDelivery implements Storage
func (s *pg) SetDelivery(ctx context.Context, messageID int64, status string) error {
	return store.ExecOne(ctx, s.q, `UPDATE messages SET delivery_status = $2 WHERE id = $1`, messageID, status)
}

// ListConversations implements Storage
func (s *pg) ListConversations(ctx context.Context, status string, limit int) ([]domain.Conversation, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT ` + convColumns + `,
			(SELECT count(*) FROM messages m WHERE m.conversation_id = c.id)
		FROM conversations c
		WHERE true
	`)
	if status != "" {
		sb.WriteString("  AND c.status = " + arg(status) + "\n")
	}
	sb.WriteString("ORDER BY c.updated_at DESC, c.id DESC LIMIT " + arg(limit))
	return store.Many(ctx, s.q, scanConversation, sb.String(), args...)
}

// GetConversation implements Storage; a missing id is perr.ErrNotFound
func (s *pg) GetConversation(ctx context.Context, id int64) (domain.Conversation, error) {
	return store.One(ctx, s.q, scanConversation, `
		SELECT `+convColumns+`,
			(SELECT count(*) FROM messages m WHERE m.conversation_id = c.id)
		FROM conversations c
		WHERE c.id = $1`, id)
}

// ListMessages implements Storage
func (s *pg) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	return store.Many(ctx, s.q, scanMessage, `
		SELECT `+msgColumns+`
		FROM messages
		WHERE conversation_id = $1
		ORDER BY sent_at ASC, id ASC`, conversationID)
}

func scanConversation(r store.Row) (domain.Conversation, error) {
	var c domain.Conversation
	if err := r.Scan(&c.ID, &c.CustomerWhatsAppID, &c.AssignedUserID, &c.Status, &c.CreatedAt, &c.UpdatedAt, &c.MessageCount); err != nil {
		return domain.Conversation{}, err
	}
	return c, nil
}

func scanMessage(r store.Row) (domain.Message, error) {
	var (
		m      domain.Message
		sender string
	)
	if err := r.Scan(&m.ID, &m.ConversationID, &sender, &m.Content, &m.ExternalID, &m.DeliveryStatus, &m.SentAt); err != nil {
		return domain.Message{}, err
	}
	m.SenderType = domain.Sender(sender)
	return m, nil
}
