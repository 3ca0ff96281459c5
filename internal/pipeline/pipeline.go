// Package pipeline runs one document end to end: text extraction, chunking,
// per-chunk LLM extraction, and the merge into a single policy record.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/obafemi-akin/policy-extract/constants"
	"github.com/obafemi-akin/policy-extract/internal/chunk"
	"github.com/obafemi-akin/policy-extract/internal/document"
	"github.com/obafemi-akin/policy-extract/internal/llm"
	"github.com/obafemi-akin/policy-extract/internal/merge"
)

// Config holds per-document processing knobs.
type Config struct {
	MaxChunkChars int // defaults to chunk.DefaultMaxChars
}

// Pipeline coordinates text extraction, chunking, extraction calls and the
// merge for a single document. Chunks are processed strictly sequentially,
// in document order; merge semantics depend on that order.
type Pipeline struct {
	Logger    *slog.Logger
	Cfg       Config
	Extractor document.TextExtractor
	Client    llm.ChunkExtractor
}

func NewPipeline(logger *slog.Logger, cfg Config, tx document.TextExtractor, client llm.ChunkExtractor) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxChunkChars <= 0 {
		cfg.MaxChunkChars = chunk.DefaultMaxChars
	}
	return &Pipeline{Logger: logger, Cfg: cfg, Extractor: tx, Client: client}
}

// Run processes the document at path and returns its merged record with the
// metadata block attached. Chunk-level extraction failures are absorbed into
// the merge (error-marker records contribute nothing); only failure to get
// any text out of the document is a hard error.
func (p *Pipeline) Run(ctx context.Context, path string) (merge.MergedRecord, error) {
	res, err := p.Extractor.Extract(ctx, path)
	if err != nil {
		return merge.MergedRecord{}, fmt.Errorf("extract text: %w", err)
	}
	if res.Text == "" {
		// An empty stream means no page yielded text: a hard extraction
		// failure, not a document with no content.
		return merge.MergedRecord{}, fmt.Errorf("%s: no extractable text", path)
	}

	chunks := chunk.Split(res.Text, p.Cfg.MaxChunkChars)
	p.Logger.Info("pipeline.chunked",
		"path", path,
		"pages", res.PageCount,
		"chars", len(res.Text),
		"chunks", len(chunks),
	)

	parts := make([]merge.PartialRecord, 0, len(chunks))
	for i, c := range chunks {
		parts = append(parts, p.Client.ExtractChunk(ctx, llm.ChunkRequest{
			Text:  c,
			Index: i + 1,
			Total: len(chunks),
		}))
	}

	merged := merge.Merge(parts)
	merged.Metadata = p.metadata(path, len(chunks))

	failed := 0
	for i := range parts {
		if parts[i].Failed() {
			failed++
		}
	}
	if failed > 0 {
		p.Logger.Warn("pipeline.partial_failures", "path", path, "failed_chunks", failed, "chunks", len(chunks))
	}
	return merged, nil
}

func (p *Pipeline) metadata(path string, chunks int) *merge.Metadata {
	method := constants.MethodSingle
	if chunks > 1 {
		method = constants.MethodChunked
	}
	var sizeMB float64
	if st, err := os.Stat(path); err == nil {
		sizeMB = math.Round(float64(st.Size())/(1024*1024)*100) / 100
	}
	return &merge.Metadata{
		SourceFile:       filepath.Base(path),
		FileSizeMB:       sizeMB,
		ModelUsed:        p.Client.Model(),
		ExtractionMethod: method,
	}
}
