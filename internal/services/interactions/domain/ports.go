package domain

import "context"

// RecorderPort writes interaction records
type RecorderPort interface {
	Record(ctx context.Context, in NewInteraction) (Interaction, error)
}

// ReaderPort lists interaction records newest first
type ReaderPort interface {
	List(ctx context.Context, limit int) ([]Interaction, error)
}

// AnalyzePort runs and records a sentiment analysis
type AnalyzePort interface {
	Analyze(ctx context.Context, text string) (Interaction, error)
}

// Analyzer asks the oracle for a sentiment reading and returns its raw text
type Analyzer interface {
	Sentiment(ctx context.Context, text string) (string, error)
}
