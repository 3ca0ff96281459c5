package llm

import (
	"context"
	"errors"

	"github.com/obafemi-akin/policy-extract/internal/merge"
)

// ChunkRequest is one chunk of document text plus its positional context.
type ChunkRequest struct {
	Text  string
	Index int // 1-based chunk position
	Total int // total chunks for the document
}

// ChunkExtractor is the interface the pipeline depends on. ExtractChunk
// never returns an error: a chunk whose extraction fails after the retry
// budget comes back as an error-marker record, so a bad chunk degrades the
// document instead of aborting it.
type ChunkExtractor interface {
	ExtractChunk(ctx context.Context, req ChunkRequest) merge.PartialRecord
	Model() string
}

// Failure classification for the retry loop. Retryable failures (rate
// limits, transport errors, malformed or non-conforming responses) are
// retried up to the attempt budget; terminal failures short-circuit it.
var (
	ErrRateLimited     = errors.New("rate limited")
	ErrServiceFailure  = errors.New("service failure")
	ErrResponseInvalid = errors.New("response invalid")
	ErrRejected        = errors.New("request rejected")
)

// Retryable reports whether the extraction failure should be retried.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrServiceFailure) ||
		errors.Is(err, ErrResponseInvalid)
}
