// Package ai defines the text completion domain: completions and their failure taxonomy
package ai

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ProviderType represents the completion provider behind a client
type ProviderType string

const (
	ProviderTypeOpenAI ProviderType = "openai"
	ProviderTypeOllama ProviderType = "ollama"
	ProviderTypeNone   ProviderType = "none"
)

// FinishReason represents why the model stopped generating
type FinishReason string

const (
	FinishReasonStop   FinishReason = "stop"
	FinishReasonLength FinishReason = "length"
)

// TokenUsage tracks token consumption of a single completion
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the raw text returned by one completion round trip
type Completion struct {
	Content      string
	Model        string
	FinishReason FinishReason
	Usage        TokenUsage
}

// FailureKind classifies why a completion failed
type FailureKind string

const (
	FailureRateLimited          FailureKind = "rate_limited"
	FailureInvalidRequest       FailureKind = "invalid_request"
	FailureAuthenticationFailed FailureKind = "authentication_failed"
	FailureTimedOut             FailureKind = "timed_out"
	FailureUnknown              FailureKind = "unknown"
)

// GenerationError is returned by completion clients for every failed round trip
type GenerationError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion failed (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("completion failed (%s): %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError creates a classified completion failure
func NewGenerationError(kind FailureKind, status int, message string, cause error) *GenerationError {
	return &GenerationError{Kind: kind, StatusCode: status, Message: message, Cause: cause}
}

// KindOf returns the failure kind carried by err, or FailureUnknown
func KindOf(err error) FailureKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return FailureUnknown
}

// KindForStatus maps an HTTP status of the completion API to a failure kind
func KindForStatus(status int) FailureKind {
	switch status {
	case 401, 403:
		return FailureAuthenticationFailed
	case 429:
		return FailureRateLimited
	case 400, 404, 409, 413, 422:
		return FailureInvalidRequest
	case 408, 504:
		return FailureTimedOut
	default:
		return FailureUnknown
	}
}

// TruncateMessage cuts s to at most limit bytes without splitting a UTF-8 sequence
func TruncateMessage(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
