package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/obafemi-akin/policy-extract/internal/llm"
	"github.com/obafemi-akin/policy-extract/internal/merge"
)

// ExtractChunk implements llm.ChunkExtractor against Groq's OpenAI-compatible
// chat/completions endpoint. Retryable failures are retried up to the attempt
// budget with exponential backoff; exhaustion (or a terminal failure) is
// downgraded to an error-marker record so the caller keeps processing the
// document's remaining chunks.
func (c *Client) ExtractChunk(ctx context.Context, req llm.ChunkRequest) merge.PartialRecord {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"chunk", req.Index,
		"total_chunks", req.Total,
		"text_len", len(req.Text),
	)

	var rec merge.PartialRecord
	attempt := 0
	op := func() error {
		attempt++
		r, err := c.extractOnce(ctx, rid, req)
		if err != nil {
			c.logger.Warn("llm.extract.attempt_failed",
				"req_id", rid, "chunk", req.Index, "attempt", attempt, "error", err)
			if llm.Retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		rec = r
		return nil
	}

	if err := backoff.Retry(op, c.newBackOff(ctx)); err != nil {
		c.logger.Error("llm.extract.failed",
			"req_id", rid, "chunk", req.Index, "attempts", attempt,
			"error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return merge.ErrorRecord(req.Index, err)
	}

	rec.Chunk = req.Index
	c.logger.Info("llm.extract.ok",
		"req_id", rid, "chunk", req.Index, "attempts", attempt,
		"elapsed_ms", time.Since(start).Milliseconds())

	// Fixed pacing after every successful call to respect service rate limits.
	c.pace(ctx)
	return rec
}

// newBackOff builds the per-call retry schedule: MaxAttempts total tries with
// exponential waits growing from RetryMinWait and capped at RetryMaxWait.
func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryMinWait
	bo.MaxInterval = c.cfg.RetryMaxWait
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.cfg.MaxAttempts-1)), ctx)
}

func (c *Client) pace(ctx context.Context) {
	if c.cfg.PacingDelay <= 0 {
		return
	}
	select {
	case <-time.After(c.cfg.PacingDelay):
	case <-ctx.Done():
	}
}

// extractOnce performs a single request/validate/decode cycle and classifies
// any failure as retryable or terminal via the llm error sentinels.
func (c *Client) extractOnce(ctx context.Context, rid string, req llm.ChunkRequest) (merge.PartialRecord, error) {
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"max_tokens":      c.cfg.MaxTokens,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.SystemPrompt},
			{"role": "user", "content": llm.BuildChunkPrompt(req)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.logger)
	if err != nil {
		return merge.PartialRecord{}, classifyHTTP(status, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return merge.PartialRecord{}, fmt.Errorf("%w: decode response envelope: %v", llm.ErrResponseInvalid, err)
	}
	if len(cc.Choices) == 0 {
		return merge.PartialRecord{}, fmt.Errorf("%w: no choices in response", llm.ErrResponseInvalid)
	}

	content := []byte(llm.NormalizeResponseBody(cc.Choices[0].Message.Content))
	if err := llm.ValidateAgainstSchema(c.schema, content); err != nil {
		c.logger.Warn("llm.extract.schema_validation_failed", "req_id", rid, "error", err)
		return merge.PartialRecord{}, fmt.Errorf("%w: %v", llm.ErrResponseInvalid, err)
	}

	var rec merge.PartialRecord
	if err := json.Unmarshal(content, &rec); err != nil {
		return merge.PartialRecord{}, fmt.Errorf("%w: unmarshal record: %v", llm.ErrResponseInvalid, err)
	}
	return rec, nil
}

// classifyHTTP maps transport/status failures onto the retry taxonomy:
// rate limits and server-side errors retry, other client errors are terminal.
func classifyHTTP(status int, err error) error {
	switch {
	case status == 0:
		return fmt.Errorf("%w: %v", llm.ErrServiceFailure, err)
	case status == 429 || status == 408:
		return fmt.Errorf("%w: %v", llm.ErrRateLimited, err)
	case status >= 500:
		return fmt.Errorf("%w: %v", llm.ErrServiceFailure, err)
	default:
		return fmt.Errorf("%w: %v", llm.ErrRejected, err)
	}
}
