// Package batch drives the extraction pipeline across many documents and
// persists one JSON record per document plus a machine-readable run summary.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/obafemi-akin/policy-extract/constants"
	"github.com/obafemi-akin/policy-extract/internal/merge"
)

// SummaryFilename is written once per batch run into the output directory.
const SummaryFilename = "_batch_summary.json"

// FileResult is one per-document outcome in the batch summary.
type FileResult struct {
	Input  string              `json:"input"`
	Output *string             `json:"output"`
	Status constants.DocStatus `json:"status"`
	Error  string              `json:"error,omitempty"`
}

// Summary is the aggregate outcome record for one batch invocation.
type Summary struct {
	Total      int          `json:"total"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Files      []FileResult `json:"files"`
}

// DocumentRunner produces the merged record for one document.
// *pipeline.Pipeline satisfies it; tests substitute fakes.
type DocumentRunner interface {
	Run(ctx context.Context, path string) (merge.MergedRecord, error)
}

// Orchestrator processes documents one at a time, converting every
// per-document failure into a summary entry instead of aborting the batch.
type Orchestrator struct {
	Logger *slog.Logger
	Runner DocumentRunner
}

func NewOrchestrator(logger *slog.Logger, runner DocumentRunner) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{Logger: logger, Runner: runner}
}

// Process runs every document in paths sequentially, writes one
// <base>.json per document into outputDir, then persists the summary once.
// Context cancellation is honored between documents only: remaining
// documents are recorded as failed with the context error, and the summary
// is still written.
func (o *Orchestrator) Process(ctx context.Context, paths []string, outputDir string) (Summary, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}

	summary := Summary{Total: len(paths), Files: make([]FileResult, 0, len(paths))}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			o.Logger.Warn("batch.interrupted", "processed", i, "remaining", len(paths)-i)
			for _, rest := range paths[i:] {
				summary.Failed++
				summary.Files = append(summary.Files, FileResult{
					Input:  rest,
					Status: constants.DocStatusFailed,
					Error:  err.Error(),
				})
			}
			break
		}

		o.Logger.Info("batch.document.start", "index", i+1, "total", len(paths), "path", path)
		outPath, err := o.processOne(ctx, path, outputDir)
		if err != nil {
			o.Logger.Error("batch.document.failed", "path", path, "error", err)
			summary.Failed++
			summary.Files = append(summary.Files, FileResult{
				Input:  path,
				Status: constants.DocStatusFailed,
				Error:  err.Error(),
			})
			continue
		}

		o.Logger.Info("batch.document.ok", "path", path, "output", outPath)
		summary.Successful++
		summary.Files = append(summary.Files, FileResult{
			Input:  path,
			Output: &outPath,
			Status: constants.DocStatusSuccess,
		})
	}

	if err := writeJSON(filepath.Join(outputDir, SummaryFilename), summary); err != nil {
		return summary, fmt.Errorf("write summary: %w", err)
	}

	o.Logger.Info("batch.complete",
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (o *Orchestrator) processOne(ctx context.Context, path, outputDir string) (string, error) {
	record, err := o.Runner.Run(ctx, path)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outputDir, base+".json")
	if err := writeJSON(outPath, record); err != nil {
		return "", err
	}
	return outPath, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
