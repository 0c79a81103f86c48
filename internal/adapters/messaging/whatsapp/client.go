// Package whatsapp provides the Cloud API push client and the webhook payload parser
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	perr "tdsdesk/internal/platform/errors"
	"tdsdesk/internal/platform/logger"
	adom "tdsdesk/internal/services/assistant/domain"

	"golang.org/x/time/rate"
)

const (
	baseURLDefault = "https://graph.facebook.com/v19.0"
	defaultTimeout = 10 * time.Second
	defaultRPS     = 20
	maxErrBody     = 2048
)

// Options configures the Client
type Options struct {
	BaseURL       string
	Token         string
	PhoneNumberID string
	Timeout       time.Duration
	// RPS throttles outbound sends; burst is the same value
	RPS float64
}

// Client sends text messages through the Cloud API
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
}

// StatusError is a non 2xx reply from the Cloud API
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("whatsapp: unexpected status %d body %s", e.Code, e.Body)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) (*Client, error) {
	if strings.TrimSpace(o.Token) == "" || strings.TrimSpace(o.PhoneNumberID) == "" {
		return nil, perr.Unavailablef("whatsapp: token and phone number id are required")
	}
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.RPS <= 0 {
		o.RPS = defaultRPS
	}
	burst := int(o.RPS)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: rate.NewLimiter(rate.Limit(o.RPS), burst),
		log:     *logger.Named("whatsapp"),
	}, nil
}

type textBody struct {
	Body string `json:"body"`
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

// SendText pushes body to the customer to; a non 2xx reply is a *StatusError wrapped in perr
func (c *Client) SendText(ctx context.Context, to, body string) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeTooManyRequests, "whatsapp throttled")
	}

	payload, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	})
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "whatsapp encode")
	}

	url := c.opts.BaseURL + "/" + c.opts.PhoneNumberID + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "whatsapp new request failed")
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "whatsapp do failed")
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("whatsapp http response")

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		se := &StatusError{Code: resp.StatusCode, Body: string(b)}
		return perr.Wrap(se, codeFor(resp.StatusCode), "whatsapp send failed")
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return nil
}

func codeFor(status int) perr.ErrorCode {
	switch {
	case status == http.StatusTooManyRequests:
		return perr.ErrorCodeTooManyRequests
	case status == http.StatusUnauthorized:
		return perr.ErrorCodeUnauthorized
	case status == http.StatusForbidden:
		return perr.ErrorCodeForbidden
	case status >= 500:
		return perr.ErrorCodeUnavailable
	default:
		return perr.ErrorCodeInvalidArgument
	}
}

// LogSender is wired when messaging credentials are absent; it logs and drops
type LogSender struct{}

// SendText logs the reply and reports adom.ErrDeliveryDisabled so nothing is marked sent
func (LogSender) SendText(ctx context.Context, to, body string) error {
	logger.C(ctx).Info().Str("to", to).Int("len", len(body)).Msg("whatsapp disabled, reply not pushed")
	return adom.ErrDeliveryDisabled
}
