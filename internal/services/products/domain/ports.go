package domain

import "context"

// MatcherPort resolves free text identifiers to catalog rows
type MatcherPort interface {
	// Match returns the first live product whose code, description or reference
	// contains every term of identifier; ok is false when nothing matches
	Match(ctx context.Context, identifier string) (p Product, ok bool, err error)
	// Find is Match returning up to limit rows
	Find(ctx context.Context, identifier string, limit int) ([]Product, error)
}

// ImporterPort loads catalog rows
type ImporterPort interface {
	Import(ctx context.Context, rows []ProductUpsert) (ImportResult, error)
}
