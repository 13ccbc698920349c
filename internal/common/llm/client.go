// Package llm wraps the Gemini API behind a small chat surface with
// function calling, retries, and timeout mapping.
package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	"google.golang.org/genai"

	"hr-interviewer/internal/common/config"
	"hr-interviewer/internal/common/errors"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/common/metrics"
)

// FunctionCall is one tool invocation requested by the model.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// Reply is the model output for one chat turn.
type Reply struct {
	Text  string
	Calls []FunctionCall
}

// ChatModel is the surface the interview engine depends on. Tests
// substitute a scripted fake.
type ChatModel interface {
	Chat(ctx context.Context, system string, history []*genai.Content, tools []*genai.Tool) (*Reply, error)
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// Client is the production ChatModel backed by Gemini.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
	maxRetries  int
	logger      logger.Logger
}

func NewClient(ctx context.Context, cfg config.GenAIConfig, log logger.Logger) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}

	return &Client{
		client:      gc,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
		timeout:     timeout,
		maxRetries:  maxRetries,
		logger:      log,
	}, nil
}

// Chat runs one conversational turn. The returned Reply carries any tool
// calls the model requested alongside its text.
func (c *Client) Chat(ctx context.Context, system string, history []*genai.Content, tools []*genai.Tool) (*Reply, error) {
	cfg := c.generateConfig(system)
	if len(tools) > 0 {
		cfg.Tools = tools
	}

	resp, err := c.generateWithRetry(ctx, "chat", history, cfg)
	if err != nil {
		return nil, err
	}

	reply := &Reply{Text: resp.Text()}
	for _, fc := range resp.FunctionCalls() {
		reply.Calls = append(reply.Calls, FunctionCall{
			Name: fc.Name,
			Args: fc.Args,
		})
	}

	return reply, nil
}

// GenerateText runs a single prompt without tools, used for stage and
// final summaries.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := c.generateWithRetry(ctx, "summary", contents, c.generateConfig(system))
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", errors.NewLLMCallFailedError(fmt.Errorf("model returned empty response"))
	}

	return text, nil
}

func (c *Client) generateConfig(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if c.maxTokens > 0 {
		cfg.MaxOutputTokens = c.maxTokens
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return cfg
}

func (c *Client) generateWithRetry(ctx context.Context, purpose string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			c.logger.Warn("Retrying model call", map[string]interface{}{
				"purpose": purpose,
				"attempt": attempt,
				"backoff": backoff.String(),
			})
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.NewLLMTimeoutError()
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		resp, err := c.client.Models.GenerateContent(callCtx, c.model, contents, cfg)
		cancel()

		metrics.ModelCallDuration.WithLabelValues(purpose).Observe(time.Since(start).Seconds())

		if err == nil {
			return resp, nil
		}

		if callCtx.Err() == context.DeadlineExceeded {
			lastErr = errors.NewLLMTimeoutError()
		} else if ctx.Err() != nil {
			return nil, errors.NewLLMTimeoutError()
		} else {
			lastErr = errors.NewLLMCallFailedError(err)
		}
	}

	return nil, lastErr
}
