package document

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/reader"
)

// PDFExtractor extracts per-page text from text-bearing PDFs using tabula.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

// Extract reads every page of the PDF at path and returns the page-marked
// text stream. A document that cannot be opened or paged returns an error;
// individual pages that fail to extract are dropped with a warning, matching
// the contract that only text-bearing pages appear in the stream.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()

	r, err := reader.Open(path)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			e.logger.Warn("document.pdf.close_error", "path", path, "error", cerr)
		}
	}()

	pageCount, err := r.PageCount()
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("page count: %w", err)
	}

	var warnings []string
	pages := make([]Page, 0, pageCount)
	for n := 1; n <= pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return ExtractionResult{}, err
		}
		pageText, warns, err := tabula.FromReader(r).Pages(n).Text()
		if err != nil {
			msg := fmt.Sprintf("page %d: %v", n, err)
			warnings = append(warnings, msg)
			e.logger.Warn("document.pdf.page_error", "path", path, "page", n, "error", err)
			continue
		}
		for _, w := range warns {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", n, w))
		}
		pages = append(pages, Page{Number: n, Text: pageText})
	}

	res := ExtractionResult{
		Text:      PageStream(pages),
		PageCount: pageCount,
		Method:    "pdf-text",
		Duration:  time.Since(start),
		Warnings:  warnings,
	}
	e.logger.Info("document.pdf.extracted",
		"path", path,
		"pages", pageCount,
		"chars", len(res.Text),
		"warnings", len(warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
