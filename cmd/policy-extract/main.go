// policy-extract runs the extraction pipeline for a single PDF and prints
// the merged record, for debugging one document at a time.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/obafemi-akin/policy-extract/internal/common"
	"github.com/obafemi-akin/policy-extract/internal/document"
	"github.com/obafemi-akin/policy-extract/internal/llm/groq"
	"github.com/obafemi-akin/policy-extract/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: policy-extract <file.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

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

	pipe := pipeline.NewPipeline(logger,
		pipeline.Config{MaxChunkChars: cfg.Extract.MaxChunkChars},
		document.NewPDFExtractor(logger),
		client,
	)

	record, err := pipe.Run(context.Background(), path)
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		logger.Error("failed to encode record", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
