// Package service implements product matching and catalog import
package service

import (
	"context"
	"strings"

	"tdsdesk/internal/core/normalize"
	"tdsdesk/internal/modkit/repokit"
	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/logger"
	"tdsdesk/internal/services/products/domain"
	"tdsdesk/internal/services/products/repo"
)

// Config for the products service
type Config struct {
	// HardLimit caps Find; defaults to 100 if <=0
	HardLimit int
}

// Service implements domain.MatcherPort and domain.ImporterPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
}

var (
	_ domain.MatcherPort  = (*Service)(nil)
	_ domain.ImporterPort = (*Service)(nil)
)

// New constructs a new products service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("products.Service requires a non nil TxRunner")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	return &Service{DB: db, Binder: b, Cfg: cfg}
}

// Match implements domain.MatcherPort
// an identifier that folds to no terms matches nothing and skips the query
func (s *Service) Match(ctx context.Context, identifier string) (domain.Product, bool, error) {
	terms := normalize.Terms(identifier)
	if len(terms) == 0 {
		return domain.Product{}, false, nil
	}
	rows, err := s.Binder.Bind(s.DB).Search(ctx, terms, 1)
	if err != nil {
		return domain.Product{}, false, perr.FromPostgres(err, "match product")
	}
	if len(rows) == 0 {
		return domain.Product{}, false, nil
	}
	return rows[0], true, nil
}

// Find implements domain.MatcherPort
func (s *Service) Find(ctx context.Context, identifier string, limit int) ([]domain.Product, error) {
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	terms := normalize.Terms(identifier)
	if len(terms) == 0 {
		return nil, nil
	}
	rows, err := s.Binder.Bind(s.DB).Search(ctx, terms, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "find products")
	}
	return rows, nil
}

// Import implements domain.ImporterPort
// rows without a code or description are skipped; the rest are written in one transaction
func (s *Service) Import(ctx context.Context, rows []domain.ProductUpsert) (domain.ImportResult, error) {
	log := logger.C(ctx)
	var res domain.ImportResult

	err := repokit.InTx(ctx, s.DB, s.Binder, func(st repo.Storage) error {
		for i, r := range rows {
			r.Code = strings.TrimSpace(r.Code)
			r.Description = strings.TrimSpace(r.Description)
			if r.Code == "" || r.Description == "" {
				log.Debug().Int("row", i).Msg("skipping product without code or description")
				res.Skipped++
				continue
			}
			if r.BranchID <= 0 {
				r.BranchID = 1
			}
			if err := st.Upsert(ctx, r); err != nil {
				return perr.FromPostgresf(err, "upsert product %s", r.Code)
			}
			res.Upserted++
		}
		return nil
	})
	if err != nil {
		return domain.ImportResult{}, err
	}
	log.Info().Int("upserted", res.Upserted).Int("skipped", res.Skipped).Msg("catalog imported")
	return res, nil
}
