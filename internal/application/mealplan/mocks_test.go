package mealplan

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kondate/mealplanner/internal/domain/ai"
	domain "github.com/kondate/mealplanner/internal/domain/mealplan"
)

// MockCompletionService provides a mock implementation of TextCompletionService
type MockCompletionService struct {
	mock.Mock
}

func (m *MockCompletionService) Complete(ctx context.Context, systemPrompt, userPrompt string) (*ai.Completion, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.Completion), args.Error(1)
}

// MockMetrics provides a mock implementation of MetricsRecorder
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordGeneration(operation string, source domain.Source, duration time.Duration) {
	m.Called(operation, source, duration)
}

func (m *MockMetrics) RecordFallback(operation, reason string) {
	m.Called(operation, reason)
}

func (m *MockMetrics) RecordCompletionFailure(kind ai.FailureKind) {
	m.Called(kind)
}

func (m *MockMetrics) RecordPlanStored() {
	m.Called()
}
