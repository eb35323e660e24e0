// Package mealplan provides the application layer for meal plan generation
package mealplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kondate/mealplanner/internal/domain/ai"
	domain "github.com/kondate/mealplanner/internal/domain/mealplan"
	"github.com/kondate/mealplanner/internal/ports/inbound"
	"github.com/kondate/mealplanner/internal/ports/outbound"
	apperrors "github.com/kondate/mealplanner/pkg/errors"
)

const tracerName = "github.com/kondate/mealplanner/internal/application/mealplan"

const (
	operationGenerate   = "generate"
	operationRegenerate = "regenerate_dish"
)

// Service generates meal plans, falling back to deterministic rules whenever
// the completion service is absent or its reply is unusable
type Service struct {
	completer outbound.TextCompletionService
	metrics   outbound.MetricsRecorder
	tracer    trace.Tracer
	logger    *zap.Logger
}

var _ inbound.MealPlanService = (*Service)(nil)

// NewService creates the meal plan service. A nil completer selects the rule-based path only.
func NewService(completer outbound.TextCompletionService, metrics outbound.MetricsRecorder, logger *zap.Logger) *Service {
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}

	namedLogger := logger.Named("mealplan-service")
	namedLogger.Info("Meal plan service initialized", zap.Bool("completion_enabled", completer != nil))

	return &Service{
		completer: completer,
		metrics:   metrics,
		tracer:    otel.Tracer(tracerName),
		logger:    namedLogger,
	}
}

// Generate builds a whole meal plan
func (s *Service) Generate(ctx context.Context, cmd inbound.GenerateMealPlanCommand) (plan *domain.Plan, err error) {
	defer s.recoverInto(operationGenerate, &err)

	if len(cmd.Ingredients) == 0 {
		return nil, apperrors.NewEmptyIngredientsError()
	}

	ctx, span := s.tracer.Start(ctx, "mealplan.Generate", trace.WithAttributes(
		attribute.Int("mealplan.ingredients", len(cmd.Ingredients)),
		attribute.String("mealplan.genre", string(cmd.Preferences.Genre)),
		attribute.String("mealplan.theme", string(cmd.Preferences.Theme)),
	))
	defer span.End()

	start := time.Now()

	if s.completer != nil {
		plan, err = s.generateWithCompletion(ctx, cmd)
		if err == nil {
			s.finish(span, operationGenerate, plan.Source, start)
			return plan, nil
		}
		s.fallback(span, operationGenerate, err)
	}

	plan = domain.PlanFromSuggestions(domain.Compose(domain.Classify(cmd.Ingredients)), domain.SourceRuleBased)
	s.finish(span, operationGenerate, plan.Source, start)

	s.logger.Info("Meal plan generated",
		zap.String("source", string(plan.Source)),
		zap.Int("total_suggestions", plan.TotalSuggestions()))

	return plan, nil
}

// RegenerateDish replaces one dish while keeping the other two
func (s *Service) RegenerateDish(ctx context.Context, cmd inbound.RegenerateDishCommand) (dish *domain.Dish, err error) {
	defer s.recoverInto(operationRegenerate, &err)

	if strings.TrimSpace(cmd.DishType) == "" {
		return nil, apperrors.NewMissingDishTypeError()
	}
	dishType, ok := domain.ParseDishType(strings.TrimSpace(cmd.DishType))
	if !ok {
		return nil, apperrors.NewInvalidDishTypeError(cmd.DishType)
	}
	if cmd.CurrentDishes.IsEmpty() {
		return nil, apperrors.NewMissingCurrentDishesError()
	}

	ctx, span := s.tracer.Start(ctx, "mealplan.RegenerateDish", trace.WithAttributes(
		attribute.String("mealplan.dish_type", string(dishType)),
	))
	defer span.End()

	start := time.Now()

	if s.completer != nil {
		dish, err = s.regenerateWithCompletion(ctx, dishType, cmd)
		if err == nil {
			s.finish(span, operationRegenerate, domain.SourceCompletion, start)
			return dish, nil
		}
		s.fallback(span, operationRegenerate, err)
	}

	d := templateDish(dishType, cmd.Ingredients)
	s.finish(span, operationRegenerate, domain.SourceTemplate, start)

	s.logger.Info("Dish regenerated",
		zap.String("dish_type", string(dishType)),
		zap.String("source", string(domain.SourceTemplate)),
		zap.String("name", d.Name))

	return &d, nil
}

func (s *Service) generateWithCompletion(ctx context.Context, cmd inbound.GenerateMealPlanCommand) (*domain.Plan, error) {
	system, user := BuildPlanPrompts(cmd)

	completion, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		s.metrics.RecordCompletionFailure(ai.KindOf(err))
		return nil, err
	}

	plan, err := ParsePlan(completion.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Meal plan generated",
		zap.String("source", string(plan.Source)),
		zap.String("model", completion.Model),
		zap.Int("total_tokens", completion.Usage.TotalTokens))

	return plan, nil
}

func (s *Service) regenerateWithCompletion(ctx context.Context, dishType domain.DishType, cmd inbound.RegenerateDishCommand) (*domain.Dish, error) {
	system, user := BuildRegeneratePrompts(dishType, cmd)

	completion, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		s.metrics.RecordCompletionFailure(ai.KindOf(err))
		return nil, err
	}

	dish, err := ParseDish(completion.Content)
	if err != nil {
		return nil, err
	}
	dish.Category = dishType

	s.logger.Info("Dish regenerated",
		zap.String("dish_type", string(dishType)),
		zap.String("source", string(domain.SourceCompletion)),
		zap.String("name", dish.Name))

	return dish, nil
}

func (s *Service) fallback(span trace.Span, operation string, cause error) {
	reason := fallbackReason(cause)
	span.RecordError(cause)
	span.SetAttributes(attribute.String("mealplan.fallback_reason", reason))

	s.metrics.RecordFallback(operation, reason)
	s.logger.Warn("Completion path failed, using fallback",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(cause))
}

func (s *Service) finish(span trace.Span, operation string, source domain.Source, start time.Time) {
	span.SetAttributes(attribute.String("mealplan.source", string(source)))
	s.metrics.RecordGeneration(operation, source, time.Since(start))
}

// recoverInto turns a panic anywhere below Generate or RegenerateDish into the generic failure
func (s *Service) recoverInto(operation string, err *error) {
	r := recover()
	if r == nil {
		return
	}

	s.logger.Error("Meal plan operation panicked",
		zap.String("operation", operation),
		zap.Any("panic", r),
		zap.Stack("stack"))

	*err = apperrors.NewGenerationFailedError(fmt.Errorf("panic: %v", r))
}

func fallbackReason(err error) string {
	var genErr *ai.GenerationError
	switch {
	case errors.As(err, &genErr):
		return string(genErr.Kind)
	case errors.Is(err, ErrParseFailed):
		return "parse_failed"
	case errors.Is(err, ErrResponseMalformed):
		return "response_malformed"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return string(ai.FailureUnknown)
	}
}
