// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application needs from the infrastructure
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/kondate/mealplanner/internal/domain/ai"
	"github.com/kondate/mealplanner/internal/domain/mealplan"
)

// TextCompletionService sends one system/user prompt pair to a completion model.
// Failures are *ai.GenerationError values.
type TextCompletionService interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*ai.Completion, error)
}

// MealPlanRepository stores generated meal plans
type MealPlanRepository interface {
	Save(ctx context.Context, record *mealplan.Record) error
	FindRecent(ctx context.Context, query RecentQuery) ([]*mealplan.Record, error)
}

// RecentQuery filters FindRecent. A zero Genre matches every plan.
type RecentQuery struct {
	Limit int
	Genre mealplan.Genre
}

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the key/value store behind the latest plan
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MetricsRecorder receives generation outcomes
type MetricsRecorder interface {
	RecordGeneration(operation string, source mealplan.Source, duration time.Duration)
	RecordFallback(operation, reason string)
	RecordCompletionFailure(kind ai.FailureKind)
	RecordPlanStored()
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) RecordGeneration(string, mealplan.Source, time.Duration) {}
func (NopMetrics) RecordFallback(string, string)                           {}
func (NopMetrics) RecordCompletionFailure(ai.FailureKind)                  {}
func (NopMetrics) RecordPlanStored()                                       {}
