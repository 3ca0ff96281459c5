package groq

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/obafemi-akin/policy-extract/internal/llm"
)

// Config for the Groq client.
type Config struct {
	APIKey      string        // if empty, falls back to env GROQ_API_KEY
	BaseURL     string        // default https://api.groq.com/openai/v1
	Model       string        // e.g., "llama-3.3-70b-versatile"
	Temperature float32       // 0..2
	MaxTokens   int           // completion token cap
	Timeout     time.Duration // http client timeout

	MaxAttempts  int           // total attempts per chunk, default 3
	RetryMinWait time.Duration // initial backoff interval, default 2s
	RetryMaxWait time.Duration // backoff cap, default 10s
	PacingDelay  time.Duration // sleep after each successful call, default 1s
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	schema     *jsonschema.Schema
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryMinWait <= 0 {
		cfg.RetryMinWait = 2 * time.Second
	}
	if cfg.RetryMaxWait <= 0 {
		cfg.RetryMaxWait = 10 * time.Second
	}
	if cfg.PacingDelay < 0 {
		cfg.PacingDelay = 0
	} else if cfg.PacingDelay == 0 {
		cfg.PacingDelay = 1 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	schema, err := llm.CompilePolicySchema()
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		schema:     schema,
		logger:     logger,
	}, nil
}

// Model returns the model identifier recorded in result metadata.
func (c *Client) Model() string { return c.cfg.Model }
