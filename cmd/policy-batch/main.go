package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/obafemi-akin/policy-extract/constants"
	"github.com/obafemi-akin/policy-extract/internal/batch"
	"github.com/obafemi-akin/policy-extract/internal/common"
	"github.com/obafemi-akin/policy-extract/internal/document"
	"github.com/obafemi-akin/policy-extract/internal/export"
	"github.com/obafemi-akin/policy-extract/internal/llm/groq"
	"github.com/obafemi-akin/policy-extract/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir      = flag.String("dir", "", "directory to scan for PDFs (required)")
		out      = flag.String("out", "", "output directory for extracted JSON (default from OUTPUT_DIR)")
		report   = flag.String("report", "", "optional XLSX report path for this run")
		maxChunk = flag.Int("max-chunk", 0, "maximum characters per LLM chunk (default from MAX_CHUNK_CHARS)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Graceful shutdown between documents
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load and validate configuration; a missing API key is fatal before any
	// document is touched.
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *out == "" {
		*out = cfg.Batch.OutputDir
	}
	if *maxChunk > 0 {
		cfg.Extract.MaxChunkChars = *maxChunk
	}

	// Wire the extraction stack
	client, err := groq.NewClient(groq.Config{
		APIKey:       cfg.LLM.APIKey,
		BaseURL:      cfg.LLM.BaseURL,
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		MaxTokens:    cfg.LLM.MaxTokens,
		Timeout:      cfg.LLM.Timeout,
		MaxAttempts:  cfg.LLM.MaxAttempts,
		RetryMinWait: cfg.LLM.RetryMinWait,
		RetryMaxWait: cfg.LLM.RetryMaxWait,
		PacingDelay:  cfg.LLM.PacingDelay,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize groq client", "error", err)
		os.Exit(1)
	}
	logger.Info("groq client initialized", "model", client.Model())

	pdfExtractor := document.NewPDFExtractor(logger)
	pipe := pipeline.NewPipeline(logger, pipeline.Config{MaxChunkChars: cfg.Extract.MaxChunkChars}, pdfExtractor, client)
	orchestrator := batch.NewOrchestrator(logger, pipe)

	// Collect documents
	paths, err := collectPDFs(*dir)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		logger.Warn("no PDF files found", "dir", *dir)
	}
	logger.Info("starting batch", "dir", *dir, "documents", len(paths), "output", *out)

	summary, err := orchestrator.Process(ctx, paths, *out)
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}

	// Optional XLSX report
	if *report != "" {
		reportBytes, err := export.NewService(logger).BatchReportXLSX(summary)
		if err != nil {
			logger.Error("failed to build report", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*report, reportBytes, 0644); err != nil {
			logger.Error("failed to write report", "path", *report, "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", *report)
	}

	printSummary(summary, *out)
	if summary.Failed > 0 && summary.Successful == 0 {
		os.Exit(1)
	}
}

// collectPDFs walks dir recursively and returns every .pdf file found,
// in walk order.
func collectPDFs(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if constants.IsAllowedExt(filepath.Ext(path)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func printSummary(s batch.Summary, out string) {
	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldRed := color.New(color.FgRed, color.Bold).SprintFunc()

	fmt.Printf("\nBatch processing complete!\n")
	fmt.Printf("- Documents: %d\n", s.Total)
	fmt.Printf("- Successful: %s\n", boldGreen(s.Successful))
	if s.Failed > 0 {
		fmt.Printf("- Failed: %s\n", boldRed(s.Failed))
	} else {
		fmt.Printf("- Failed: %d\n", s.Failed)
	}
	fmt.Printf("- Output: %s\n", out)
}
