package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Extract ExtractConfig
	LLM     LLMConfig
	Batch   BatchConfig
}

// ExtractConfig holds text-extraction and chunking configuration
type ExtractConfig struct {
	MaxChunkChars int // maximum characters per LLM chunk
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration

	MaxAttempts  int           // total attempts per chunk (first try + retries)
	RetryMinWait time.Duration // initial backoff interval
	RetryMaxWait time.Duration // backoff cap
	PacingDelay  time.Duration // sleep after each successful chunk call
}

// BatchConfig holds batch-run output configuration
type BatchConfig struct {
	OutputDir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			MaxChunkChars: getEnvAsInt("MAX_CHUNK_CHARS", 20000),
		},
		LLM: LLMConfig{
			Model:        getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
			APIKey:       getEnv("GROQ_API_KEY", ""),
			BaseURL:      getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Temperature:  getEnvAsFloat32("GROQ_TEMPERATURE", 0.1),
			MaxTokens:    getEnvAsInt("GROQ_MAX_TOKENS", 4000),
			Timeout:      getEnvAsDuration("GROQ_TIMEOUT", 45*time.Second),
			MaxAttempts:  getEnvAsInt("GROQ_MAX_ATTEMPTS", 3),
			RetryMinWait: getEnvAsDuration("GROQ_RETRY_MIN_WAIT", 2*time.Second),
			RetryMaxWait: getEnvAsDuration("GROQ_RETRY_MAX_WAIT", 10*time.Second),
			PacingDelay:  getEnvAsDuration("GROQ_PACING_DELAY", 1*time.Second),
		},
		Batch: BatchConfig{
			OutputDir: getEnv("OUTPUT_DIR", "extracted_json"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. A missing API key is the only
// fatal startup error class; everything downstream is converted to recorded
// failures instead of aborting the run.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GROQ_API_KEY is required", ErrInvalidInput)
	}
	if c.Extract.MaxChunkChars <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_CHUNK_CHARS must be positive", ErrInvalidInput)
	}
	if c.LLM.MaxAttempts <= 0 {
		return NewAppError("CONFIG_ERROR", "GROQ_MAX_ATTEMPTS must be positive", ErrInvalidInput)
	}
	return nil
}
