// Package oracle turns prompts from the catalog into model calls with bounded retries
package oracle

import (
	"context"
	"errors"
	"strings"
	"time"

	"tdsdesk/internal/core/prompts"
	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/logger"
)

// Params tunes a single generation
type Params struct {
	Temperature float32
	MaxTokens   int32
	// JSON asks the model for a JSON object instead of prose
	JSON bool
}

// Model generates text for a prompt; implementations mark retryable failures with Transient
type Model interface {
	Generate(ctx context.Context, prompt string, p Params) (string, error)
}

// Options configures an Oracle
type Options struct {
	// Timeout bounds each attempt; defaults to 20s
	Timeout time.Duration
	// Retries is the number of extra attempts after a transient failure
	// zero means 1, negative disables retries
	Retries int
}

// Oracle implements identifier extraction, answer phrasing and sentiment analysis
type Oracle struct {
	model   Model
	catalog *prompts.Catalog
	opts    Options
	log     *logger.Logger
}

// New builds an Oracle over model using the prompts of catalog
func New(model Model, catalog *prompts.Catalog, opts Options) *Oracle {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	} else if opts.Retries == 0 {
		opts.Retries = 1
	}
	return &Oracle{model: model, catalog: catalog, opts: opts, log: logger.Named("oracle")}
}

var (
	extractParams   = Params{Temperature: 0.1, MaxTokens: 64}
	composeParams   = Params{Temperature: 0.4, MaxTokens: 512}
	sentimentParams = Params{Temperature: 0.2, MaxTokens: 512, JSON: true}
)

// ExtractIdentifier returns the product identifier named in question or the catalog sentinel
func (o *Oracle) ExtractIdentifier(ctx context.Context, question string) (string, error) {
	prompt, err := o.catalog.Extract(question)
	if err != nil {
		return "", err
	}
	out, err := o.generate(ctx, "extract", prompt, extractParams)
	if err != nil {
		return "", err
	}
	return CleanIdentifier(out, o.catalog.Sentinel()), nil
}

// ComposeText phrases a customer answer from a rendered fact sheet
func (o *Oracle) ComposeText(ctx context.Context, factSheet string) (string, error) {
	prompt, err := o.catalog.Compose(factSheet)
	if err != nil {
		return "", err
	}
	out, err := o.generate(ctx, "compose", prompt, composeParams)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Sentiment returns the raw JSON analysis of text
func (o *Oracle) Sentiment(ctx context.Context, text string) (string, error) {
	prompt, err := o.catalog.Analyze(text)
	if err != nil {
		return "", err
	}
	return o.generate(ctx, "analyze", prompt, sentimentParams)
}

func (o *Oracle) generate(ctx context.Context, op, prompt string, p Params) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= o.opts.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "oracle %s canceled", op)
		}
		start := time.Now()
		actx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
		out, err := o.model.Generate(actx, prompt, p)
		timedOut := errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
		cancel()
		if err == nil {
			o.log.Debug().Str("op", op).Int("attempt", attempt+1).Dur("took", time.Since(start)).Msg("oracle ok")
			return out, nil
		}
		lastErr = err
		retry := IsTransient(err) || timedOut
		o.log.Warn().Err(err).Str("op", op).Int("attempt", attempt+1).Bool("retry", retry && attempt < o.opts.Retries).Msg("oracle call failed")
		if !retry {
			break
		}
	}
	if perr.IsCode(lastErr, perr.ErrorCodeUnavailable) {
		return "", lastErr
	}
	return "", perr.Wrapf(lastErr, perr.ErrorCodeUnavailable, "oracle %s failed", op)
}

// CleanIdentifier trims model output and canonicalizes the sentinel
// empty output, quotes, and sentinel variants like "n/a." all become sentinel
func CleanIdentifier(out, sentinel string) string {
	s := strings.TrimSpace(out)
	s = strings.Trim(s, "\"'`“”‘’")
	s = strings.TrimSpace(s)
	if s == "" {
		return sentinel
	}
	bare := strings.TrimRight(s, ".!;:, ")
	if strings.EqualFold(bare, sentinel) {
		return sentinel
	}
	return s
}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth one more attempt
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked with Transient
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}
