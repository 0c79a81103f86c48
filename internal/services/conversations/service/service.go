// Package service implements conversation threads for the messaging channel
package service

import (
	"context"
	"strings"

	"tdsdesk/internal/modkit/repokit"
	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/services/conversations/domain"
	"tdsdesk/internal/services/conversations/repo"
)

// Config for the conversations service
type Config struct {
	DefaultLimit int
	HardLimit    int
}

// Service implements domain.ThreadPort and domain.ReaderPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
}

var (
	_ domain.ThreadPort = (*Service)(nil)
	_ domain.ReaderPort = (*Service)(nil)
)

// New constructs a new conversations service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("conversations.Service requires a non nil TxRunner")
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 200
	}
	return &Service{DB: db, Binder: b, Cfg: cfg}
}

// Open implements domain.ThreadPort
func (s *Service) Open(ctx context.Context, customer string) (domain.Conversation, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return domain.Conversation{}, perr.InvalidArgf("customer id is required")
	}
	c, err := s.Binder.Bind(s.DB).OpenConversation(ctx, customer)
	if err != nil {
		return domain.Conversation{}, perr.FromPostgresf(err, "open conversation for %s", customer)
	}
	return c, nil
}

// AddInbound implements domain.ThreadPort
func (s *Service) AddInbound(ctx context.Context, conversationID int64, content, externalID string) (domain.Message, bool, error) {
	m := domain.Message{ConversationID: conversationID, SenderType: domain.SenderCustomer, Content: content}
	if externalID != "" {
		m.ExternalID = &externalID
	}
	out, err := s.add(ctx, m)
	if perr.IsDuplicateKey(err) {
		return domain.Message{}, true, nil
	}
	if err != nil {
		return domain.Message{}, false, perr.FromPostgres(err, "store inbound message")
	}
	return out, false, nil
}

// AddOutbound implements domain.ThreadPort
func (s *Service) AddOutbound(ctx context.Context, conversationID int64, content string) (domain.Message, error) {
	out, err := s.add(ctx, domain.Message{
		ConversationID: conversationID,
		SenderType:     domain.SenderAssistant,
		Content:        content,
		DeliveryStatus: domain.DeliveryPending,
	})
	if err != nil {
		return domain.Message{}, perr.FromPostgres(err, "store outbound message")
	}
	return out, nil
}

func (s *Service) add(ctx context.Context, m domain.Message) (domain.Message, error) {
	var out domain.Message
	err := repokit.InTx(ctx, s.DB, s.Binder, func(st repo.Storage) error {
		var err error
		if out, err = st.InsertMessage(ctx, m); err != nil {
			return err
		}
		return st.TouchConversation(ctx, m.ConversationID)
	})
	return out, err
}

// SetDelivery implements domain.ThreadPort
func (s *Service) SetDelivery(ctx context.Context, messageID int64, status string) error {
	switch status {
	case domain.DeliveryPending, domain.DeliverySent, domain.DeliveryFailed, domain.DeliverySkipped:
	default:
		return perr.InvalidArgf("unknown delivery status %q", status)
	}
	if err := s.Binder.Bind(s.DB).SetDelivery(ctx, messageID, status); err != nil {
		return perr.FromPostgresf(err, "set delivery of message %d", messageID)
	}
	return nil
}

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context, in domain.ListInput) ([]domain.Conversation, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = s.Cfg.DefaultLimit
	}
	if limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	xs, err := s.Binder.Bind(s.DB).ListConversations(ctx, in.Status, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list conversations")
	}
	if xs == nil {
		xs = []domain.Conversation{}
	}
	return xs, nil
}

// Get implements domain.ReaderPort
func (s *Service) Get(ctx context.Context, id int64) (domain.Thread, error) {
	st := s.Binder.Bind(s.DB)
	c, err := st.GetConversation(ctx, id)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.Thread{}, perr.NotFoundf("conversation %d not found", id)
	}
	if err != nil {
		return domain.Thread{}, perr.FromPostgresf(err, "get conversation %d", id)
	}
	ms, err := st.ListMessages(ctx, id)
	if err != nil {
		return domain.Thread{}, perr.FromPostgresf(err, "list messages of %d", id)
	}
	if ms == nil {
		ms = []domain.Message{}
	}
	return domain.Thread{Conversation: c, Messages: ms}, nil
}
