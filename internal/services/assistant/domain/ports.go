package domain

import (
	"context"
	"errors"
)

// ErrDeliveryDisabled is returned by senders that have nowhere to push
var ErrDeliveryDisabled = errors.New("messaging delivery is disabled")

// Oracle is the generative model as the turn pipeline sees it
type Oracle interface {
	// ExtractIdentifier returns the product named in question or the sentinel
	ExtractIdentifier(ctx context.Context, question string) (string, error)
	// ComposeText phrases an answer from a rendered fact sheet
	ComposeText(ctx context.Context, factSheet string) (string, error)
}

// Replies are the canned texts of the desk
type Replies interface {
	Sentinel() string
	Greeting() string
	NotFound(identifier string) string
}

// SenderPort pushes a text to a messaging recipient
type SenderPort interface {
	SendText(ctx context.Context, to, body string) error
}

// AskPort answers one customer turn
type AskPort interface {
	Ask(ctx context.Context, t Turn) (Result, error)
}

// DeliverPort pushes a turn result to a messaging recipient
type DeliverPort interface {
	Deliver(ctx context.Context, to string, r Result) error
}
