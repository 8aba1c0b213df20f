package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Question store. An empty URL keeps questions in memory.
	StoreURL    string
	StoreAPIKey string

	// Content assist
	AnthropicAPIKey string
	AnthropicModel  string

	// Import worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentStore int

	// Limits
	MaxUploadBytes   int64
	MaxDocumentBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Rendering
	Typesetter string
	Bullet     string
}

// Typesetters accepted in TYPESETTER.
var Typesetters = []string{"mathml", "strict", "none"}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("EXAMTEX_API_KEY"),

		StoreURL:    os.Getenv("STORE_URL"),
		StoreAPIKey: os.Getenv("STORE_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentStore: envInt("MAX_CONCURRENT_STORE", 10),

		MaxUploadBytes:   envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxDocumentBytes: envInt64("MAX_DOCUMENT_BYTES", 65536),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		Typesetter: strings.ToLower(envOr("TYPESETTER", "mathml")),
		Bullet:     os.Getenv("BULLET"),
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults replaces out-of-range values.
func (c *Config) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 100
	}
	if c.MaxConcurrentStore <= 0 {
		c.MaxConcurrentStore = 10
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
	if c.MaxDocumentBytes <= 0 {
		c.MaxDocumentBytes = 65536
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 1 * time.Hour
	}
}

// Validate checks what the HTTP server needs. The CLI renders without it.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("EXAMTEX_API_KEY is required")
	}
	if c.StoreURL != "" && c.StoreAPIKey == "" {
		return fmt.Errorf("STORE_API_KEY is required when STORE_URL is set")
	}
	if !validTypesetter(c.Typesetter) {
		return fmt.Errorf("TYPESETTER must be one of %s", strings.Join(Typesetters, ", "))
	}
	return nil
}

func validTypesetter(name string) bool {
	for _, t := range Typesetters {
		if name == t {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
