package document

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: file -> page-marked text stream.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ExtractionResult, error)
}

// ExtractionResult carries the flat text stream plus extraction summary data.
// Text is empty only when nothing extractable was found; callers treat a
// returned error as a hard document failure.
type ExtractionResult struct {
	Text      string
	PageCount int    // pages in the source document, including textless ones
	Method    string // "pdf-text"
	Duration  time.Duration
	Warnings  []string
}
