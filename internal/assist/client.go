// Package assist calls the Anthropic Messages API to modify and create
// exam questions. Returned text is plain mixed markup for the renderer.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/dgallion1/examtex/internal/metrics"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5"

const maxTokens = 4096

// Client wraps the Anthropic SDK for question editing.
type Client struct {
	api        anthropic.Client
	model      string
	httpClient *http.Client
	backoff    Backoff
	stats      *LLMStats
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// Options configure a Client. Zero values get defaults.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Backoff Backoff
	Stats   *LLMStats
	Metrics *metrics.Metrics
	Log     *slog.Logger
}

func NewClient(opts Options) *Client {
	httpClient := &http.Client{Timeout: 120 * time.Second}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(httpClient),
		// Retries are handled by Backoff so they show up in stats and logs.
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	c := &Client{
		api:        anthropic.NewClient(reqOpts...),
		model:      opts.Model,
		httpClient: httpClient,
		backoff:    opts.Backoff,
		stats:      opts.Stats,
		metrics:    opts.Metrics,
		log:        opts.Log,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.backoff == (Backoff{}) {
		c.backoff = DefaultBackoff
	}
	if c.stats == nil {
		c.stats = NewLLMStats(time.Hour)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Stats returns the latency tracker for this client.
func (c *Client) Stats() *LLMStats {
	return c.stats
}

// ModifyRequest asks for an edit of existing question text.
type ModifyRequest struct {
	CurrentText string `json:"current_text"`
	Instruction string `json:"instruction"`
}

// ModifyResult carries either the modified text or an error message.
type ModifyResult struct {
	Success      bool   `json:"success"`
	ModifiedText string `json:"modified_text,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Modify applies an instruction to question text. Failures are reported in
// the result, never as a Go error, so callers can pass it straight through.
func (c *Client) Modify(ctx context.Context, req ModifyRequest) ModifyResult {
	start := time.Now()
	text, err := c.modify(ctx, req)
	c.metrics.ObserveAssist("modify", time.Since(start), err)
	if err != nil {
		c.log.Warn("modify failed", "error", err)
		return ModifyResult{Error: err.Error()}
	}
	return ModifyResult{Success: true, ModifiedText: text}
}

func (c *Client) modify(ctx context.Context, req ModifyRequest) (string, error) {
	if strings.TrimSpace(req.Instruction) == "" {
		return "", errors.New("instruction is required")
	}
	if len(req.CurrentText) > MaxTextBytes {
		return "", fmt.Errorf("current text exceeds %d bytes", MaxTextBytes)
	}

	out, err := c.complete(ctx, ModifySystemPrompt, BuildModifyPrompt(req))
	if err != nil {
		return "", err
	}
	modified := stripCodeBlock(out)
	if err := ValidateModified(req.CurrentText, modified); err != nil {
		return "", err
	}
	return modified, nil
}

// CreateRequest asks for new questions on a topic.
type CreateRequest struct {
	Topic      string `json:"topic"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// GeneratedQuestion is one question returned by Create.
type GeneratedQuestion struct {
	Text       string   `json:"text"`
	Answer     string   `json:"answer"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
	Marks      int      `json:"marks"`
	Tags       []string `json:"tags"`
}

// Create generates questions. Invalid entries in the response are
// dropped; an error is returned only when none survive.
func (c *Client) Create(ctx context.Context, req CreateRequest) ([]GeneratedQuestion, error) {
	start := time.Now()
	qs, err := c.create(ctx, req)
	c.metrics.ObserveAssist("create", time.Since(start), err)
	return qs, err
}

func (c *Client) create(ctx context.Context, req CreateRequest) ([]GeneratedQuestion, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, errors.New("topic is required")
	}
	req.Count = clampCount(req.Count)

	out, err := c.complete(ctx, CreateSystemPrompt, BuildCreatePrompt(req))
	if err != nil {
		return nil, err
	}
	raw := stripCodeBlock(out)

	var generated []GeneratedQuestion
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		return nil, fmt.Errorf("parse questions json: %w (raw: %s)", err, truncate(raw, 200))
	}

	valid := generated[:0]
	for i := range generated {
		if ValidateGenerated(&generated[i]) {
			valid = append(valid, generated[i])
		}
	}
	if len(valid) == 0 {
		return nil, errors.New("no valid questions in response")
	}
	if len(valid) > req.Count {
		valid = valid[:req.Count]
	}
	c.log.Info("questions created", "topic", req.Topic, "requested", req.Count, "returned", len(generated), "valid", len(valid))
	return valid, nil
}

// complete sends one prompt with retries and returns the text of the
// first content block.
func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	attempt := 0
	return withRetry(ctx, c.backoff, func(ctx context.Context) (string, error) {
		attempt++
		start := time.Now()
		msg, err := c.api.Messages.New(ctx, params)
		c.stats.Record(time.Since(start), err)
		if err != nil {
			err = classify(err)
			if IsRetryable(err) {
				c.log.Warn("retryable assist error", "attempt", attempt, "error", err)
			}
			return "", err
		}
		for _, block := range msg.Content {
			if block.Type == "text" {
				return block.Text, nil
			}
		}
		return "", errors.New("empty response from claude")
	})
}

func clampCount(n int) int {
	switch {
	case n <= 0:
		return 1
	case n > MaxCreateCount:
		return MaxCreateCount
	}
	return n
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
