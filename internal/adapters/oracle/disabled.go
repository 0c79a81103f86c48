package oracle

import (
	"context"

	perr "tdsdesk/internal/platform/errors"
)

// Disabled stands in for the oracle when no credential is configured
// every call fails with ErrorCodeUnavailable
type Disabled struct {
	Reason string
}

func (d Disabled) err() error {
	if d.Reason == "" {
		return perr.Unavailablef("oracle is not configured")
	}
	return perr.Unavailablef("oracle is not configured: %s", d.Reason)
}

// ExtractIdentifier always fails
func (d Disabled) ExtractIdentifier(context.Context, string) (string, error) { return "", d.err() }

// ComposeText always fails
func (d Disabled) ComposeText(context.Context, string) (string, error) { return "", d.err() }

// Sentiment always fails
func (d Disabled) Sentiment(context.Context, string) (string, error) { return "", d.err() }
