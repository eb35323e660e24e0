// Package ollama provides a completion client for a local Ollama server
package ollama

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

	"github.com/kondate/mealplanner/internal/domain/ai"
	"github.com/kondate/mealplanner/internal/ports/outbound"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2:3b"
	DefaultTimeout = 60 * time.Second
)

// Config holds the client settings
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements TextCompletionService against the Ollama chat API
type Client struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

var _ outbound.TextCompletionService = (*Client)(nil)

// NewClient creates a new Ollama client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger.Info("Ollama client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.Model),
		zap.Duration("timeout", cfg.Timeout))

	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.Named("ollama-client"),
	}
}

// Ollama API structures
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ChatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Format   string                 `json:"format,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ChatResponse struct {
	Model           string      `json:"model"`
	Message         ChatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	TotalDuration   int64       `json:"total_duration,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
}

// Complete sends one non-streaming chat request asking for a JSON reply
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (*ai.Completion, error) {
	options := map[string]interface{}{
		"temperature": c.config.Temperature,
	}
	if c.config.MaxTokens > 0 {
		options["num_predict"] = c.config.MaxTokens
	}

	reqBody := ChatRequest{
		Model: c.config.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream:  false,
		Format:  "json",
		Options: options,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, ai.NewGenerationError(ai.FailureInvalidRequest, 0, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, ai.NewGenerationError(ai.FailureInvalidRequest, 0, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		message := errorMessage(body)
		c.logger.Warn("Ollama API returned an error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("kind", string(kind)),
			zap.String("message", message))
		return nil, ai.NewGenerationError(kind, resp.StatusCode, message, nil)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, ai.NewGenerationError(ai.FailureUnknown, resp.StatusCode, "failed to unmarshal response", err)
	}
	if strings.TrimSpace(chatResp.Message.Content) == "" {
		return nil, ai.NewGenerationError(ai.FailureUnknown, resp.StatusCode, "empty response message", nil)
	}

	c.logger.Info("Ollama API call successful",
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_tokens", chatResp.PromptEvalCount),
		zap.Int("completion_tokens", chatResp.EvalCount),
	)

	model := chatResp.Model
	if model == "" {
		model = c.config.Model
	}

	finish := ai.FinishReasonStop
	if chatResp.DoneReason == string(ai.FinishReasonLength) {
		finish = ai.FinishReasonLength
	}

	return &ai.Completion{
		Content:      chatResp.Message.Content,
		Model:        model,
		FinishReason: finish,
		Usage: ai.TokenUsage{
			PromptTokens:     chatResp.PromptEvalCount,
			CompletionTokens: chatResp.EvalCount,
			TotalTokens:      chatResp.PromptEvalCount + chatResp.EvalCount,
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
		return ai.NewGenerationError(ai.FailureUnknown, 0, fmt.Sprintf("Ollama request failed: %v", err), err)
	}
}

// errorMessage reads Ollama's {"error": "..."} body
func errorMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}

	message := ai.TruncateMessage(strings.TrimSpace(string(body)), 200)
	if message == "" {
		message = "empty error body"
	}
	return message
}
