// Package repo provides the interaction log repository for Postgres
package repo

import (
	"context"

	"tdsdesk/internal/modkit/repokit"
	"tdsdesk/internal/platform/store"
	"tdsdesk/internal/services/interactions/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the interactions repository; records are insert only
type Storage interface {
	Insert(ctx context.Context, in domain.NewInteraction) (domain.Interaction, error)
	List(ctx context.Context, limit int) ([]domain.Interaction, error)
}

type pg struct{ q repokit.Queryer }

const returning = `id, original_text, category, sentiment, summary, answer, channel, created_at`

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, in domain.NewInteraction) (domain.Interaction, error) {
	return scanInteraction(s.q.QueryRow(ctx, `
		INSERT INTO interactions (original_text, category, sentiment, summary, answer, channel)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+returning,
		in.OriginalText, in.Category, in.Sentiment, in.Summary, in.Answer, string(in.Channel),
	))
}

// List implements Storage
func (s *pg) List(ctx context.Context, limit int) ([]domain.Interaction, error) {
	return store.Many(ctx, s.q, scanInteraction, `
		SELECT `+returning+`
		FROM interactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
}

func scanInteraction(r store.Row) (domain.Interaction, error) {
	var (
		it domain.Interaction
		ch string
	)
	if err := r.Scan(&it.ID, &it.OriginalText, &it.Category, &it.Sentiment, &it.Summary, &it.Answer, &ch, &it.CreatedAt); err != nil {
		return domain.Interaction{}, err
	}
	it.Channel = domain.Channel(ch)
	return it, nil
}
