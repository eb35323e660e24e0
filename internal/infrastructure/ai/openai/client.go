// Package openai provides the OpenAI chat completions client used for meal plan generation
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kondate/mealplanner/internal/domain/ai"
	"github.com/kondate/mealplanner/internal/ports/outbound"
)

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "gpt-3.5-turbo"
	DefaultMaxTokens = 1000
	DefaultTimeout   = 30 * time.Second
)

// Config holds the client settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	// RequestsPerSecond <= 0 disables client side rate limiting
	RequestsPerSecond float64
	Burst             int
}

// Client implements TextCompletionService with one chat completion per call and no retry
type Client struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ outbound.TextCompletionService = (*Client)(nil)

// NewClient creates a new OpenAI client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	namedLogger := logger.Named("openai")
	namedLogger.Info("OpenAI client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.Model),
		zap.Float64("temperature", cfg.Temperature))

	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: limiter,
		logger:  namedLogger,
	}
}

// OpenAI API structures
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete sends the prompts and returns the first choice
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (*ai.Completion, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyLimiterError(err)
	}

	reqBody := ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, ai.NewGenerationError(ai.FailureInvalidRequest, 0, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, ai.NewGenerationError(ai.FailureInvalidRequest, 0, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		kind := ai.KindForStatus(resp.StatusCode)
		message := apiErrorMessage(body)
		c.logger.Warn("OpenAI API returned an error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("kind", string(kind)),
			zap.String("message", message))
		return nil, ai.NewGenerationError(kind, resp.StatusCode, message, nil)
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, ai.NewGenerationError(ai.FailureUnknown, resp.StatusCode, "failed to unmarshal response", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, ai.NewGenerationError(ai.FailureUnknown, resp.StatusCode, "no response choices returned", nil)
	}

	c.logger.Info("OpenAI API call successful",
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
		zap.Int("total_tokens", chatResp.Usage.TotalTokens),
	)

	choice := chatResp.Choices[0]
	model := chatResp.Model
	if model == "" {
		model = c.config.Model
	}

	return &ai.Completion{
		Content:      choice.Message.Content,
		Model:        model,
		FinishReason: ai.FinishReason(choice.FinishReason),
		Usage: ai.TokenUsage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		},
	}, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ai.NewGenerationError(ai.FailureTimedOut, 0, "request timed out", err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return ai.NewGenerationError(ai.FailureTimedOut, 0, "request timed out", err)
	default:
		return ai.NewGenerationError(ai.FailureUnknown, 0, fmt.Sprintf("API request failed: %v", err), err)
	}
}

// Wait fails without waiting when the deadline would pass before a token frees up
func classifyLimiterError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return classifyTransportError(err)
	}
	return ai.NewGenerationError(ai.FailureTimedOut, 0, "rate limiter wait exceeds deadline", err)
}

func apiErrorMessage(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	message := ai.TruncateMessage(strings.TrimSpace(string(body)), 200)
	if message == "" {
		message = "empty error body"
	}
	return message
}
