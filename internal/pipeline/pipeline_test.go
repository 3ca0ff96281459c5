package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obafemi-akin/policy-extract/constants"
	"github.com/obafemi-akin/policy-extract/internal/document"
	"github.com/obafemi-akin/policy-extract/internal/llm"
	"github.com/obafemi-akin/policy-extract/internal/merge"
)

type fakeTextExtractor struct {
	text string
	err  error
}

func (f *fakeTextExtractor) Extract(ctx context.Context, path string) (document.ExtractionResult, error) {
	if f.err != nil {
		return document.ExtractionResult{}, f.err
	}
	return document.ExtractionResult{Text: f.text, PageCount: 1, Method: "pdf-text"}, nil
}

// fakeChunkExtractor records call order and tags each record with its chunk.
type fakeChunkExtractor struct {
	requests []llm.ChunkRequest
	failAt   map[int]bool
}

func (f *fakeChunkExtractor) ExtractChunk(ctx context.Context, req llm.ChunkRequest) merge.PartialRecord {
	f.requests = append(f.requests, req)
	if f.failAt[req.Index] {
		return merge.ErrorRecord(req.Index, errors.New("simulated failure"))
	}
	provider := fmt.Sprintf("provider-from-chunk-%d", req.Index)
	req1 := fmt.Sprintf("requirement %d", req.Index)
	return merge.PartialRecord{
		Provider:        &provider,
		KeyRequirements: []string{req1},
		Chunk:           req.Index,
	}
}

func (f *fakeChunkExtractor) Model() string { return "fake-model" }

func tempPDF(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.pdf")
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func pageText(n, size int) string {
	return document.Marker(n) + "\n" + strings.Repeat(fmt.Sprintf("w%d ", n), size/3)
}

func TestRunSingleChunkDocument(t *testing.T) {
	client := &fakeChunkExtractor{}
	p := NewPipeline(nil, Config{MaxChunkChars: 1000}, &fakeTextExtractor{text: pageText(1, 300)}, client)

	rec, err := p.Run(context.Background(), tempPDF(t, 512))
	if err != nil {
		t.Fatal(err)
	}

	if len(client.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(client.requests))
	}
	if client.requests[0].Index != 1 || client.requests[0].Total != 1 {
		t.Errorf("positional context = %d/%d, want 1/1", client.requests[0].Index, client.requests[0].Total)
	}

	md := rec.Metadata
	if md == nil {
		t.Fatal("metadata missing")
	}
	if md.ExtractionMethod != constants.MethodSingle {
		t.Errorf("extraction_method = %s, want %s", md.ExtractionMethod, constants.MethodSingle)
	}
	if md.ModelUsed != "fake-model" {
		t.Errorf("model_used = %s", md.ModelUsed)
	}
	if md.SourceFile != "policy.pdf" {
		t.Errorf("source_file = %s", md.SourceFile)
	}
}

func TestRunChunkedDocumentSequentialOrder(t *testing.T) {
	text := strings.Join([]string{pageText(1, 600), pageText(2, 600), pageText(3, 600)}, "\n\n")
	client := &fakeChunkExtractor{}
	p := NewPipeline(nil, Config{MaxChunkChars: 700}, &fakeTextExtractor{text: text}, client)

	rec, err := p.Run(context.Background(), tempPDF(t, 2048))
	if err != nil {
		t.Fatal(err)
	}

	if len(client.requests) < 2 {
		t.Fatalf("expected chunked processing, got %d requests", len(client.requests))
	}
	for i, req := range client.requests {
		if req.Index != i+1 {
			t.Errorf("request %d has index %d: chunks must run in order", i, req.Index)
		}
		if req.Total != len(client.requests) {
			t.Errorf("request %d total = %d, want %d", i, req.Total, len(client.requests))
		}
	}

	if rec.Metadata.ExtractionMethod != constants.MethodChunked {
		t.Errorf("extraction_method = %s, want %s", rec.Metadata.ExtractionMethod, constants.MethodChunked)
	}
	// First chunk's scalar wins.
	if rec.Provider == nil || *rec.Provider != "provider-from-chunk-1" {
		t.Errorf("provider = %v, want provider-from-chunk-1", rec.Provider)
	}
	// Requirements accumulate from every chunk.
	if len(rec.KeyRequirements) != len(client.requests) {
		t.Errorf("key_requirements = %v", rec.KeyRequirements)
	}
}

func TestRunChunkFailureDegradesNotAborts(t *testing.T) {
	text := strings.Join([]string{pageText(1, 600), pageText(2, 600)}, "\n\n")
	client := &fakeChunkExtractor{failAt: map[int]bool{1: true}}
	p := NewPipeline(nil, Config{MaxChunkChars: 700}, &fakeTextExtractor{text: text}, client)

	rec, err := p.Run(context.Background(), tempPDF(t, 100))
	if err != nil {
		t.Fatalf("chunk failure must not fail the document: %v", err)
	}
	if rec.Provider == nil || *rec.Provider != "provider-from-chunk-2" {
		t.Errorf("provider = %v, want value from the surviving chunk", rec.Provider)
	}
}

func TestRunNoTextIsHardFailure(t *testing.T) {
	p := NewPipeline(nil, Config{}, &fakeTextExtractor{text: ""}, &fakeChunkExtractor{})
	if _, err := p.Run(context.Background(), tempPDF(t, 100)); err == nil {
		t.Fatal("empty text stream must be a hard extraction failure")
	}
}

func TestRunExtractorErrorPropagates(t *testing.T) {
	p := NewPipeline(nil, Config{}, &fakeTextExtractor{err: errors.New("corrupt xref")}, &fakeChunkExtractor{})
	_, err := p.Run(context.Background(), "missing.pdf")
	if err == nil || !strings.Contains(err.Error(), "corrupt xref") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunFileSizeRounding(t *testing.T) {
	client := &fakeChunkExtractor{}
	p := NewPipeline(nil, Config{MaxChunkChars: 1000}, &fakeTextExtractor{text: pageText(1, 100)}, client)

	// 1.5 MiB exactly.
	path := tempPDF(t, 1572864)
	rec, err := p.Run(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Metadata.FileSizeMB != 1.5 {
		t.Errorf("file_size_mb = %v, want 1.5", rec.Metadata.FileSizeMB)
	}
}
