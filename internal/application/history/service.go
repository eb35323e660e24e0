// Package history records generated meal plans and serves them back
package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	domain "github.com/kondate/mealplanner/internal/domain/mealplan"
	"github.com/kondate/mealplanner/internal/ports/inbound"
	"github.com/kondate/mealplanner/internal/ports/outbound"
	apperrors "github.com/kondate/mealplanner/pkg/errors"
)

// LatestPlanKey is the cache key holding the most recent plan
const LatestPlanKey = "kondate:latest_meal_plan"

// Service implements inbound.HistoryService on a repository and a cache
type Service struct {
	repo      outbound.MealPlanRepository
	cache     outbound.CacheRepository
	latestTTL time.Duration
	metrics   outbound.MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
}

var _ inbound.HistoryService = (*Service)(nil)

// NewService creates the history service. latestTTL is handed to the cache as is.
func NewService(repo outbound.MealPlanRepository, cache outbound.CacheRepository, latestTTL time.Duration, metrics outbound.MetricsRecorder, logger *zap.Logger) *Service {
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		latestTTL: latestTTL,
		metrics:   metrics,
		logger:    logger.Named("history-service"),
		now:       time.Now,
	}
}

// Record stores the plan and makes it the latest one. Failures are logged only.
func (s *Service) Record(ctx context.Context, plan *domain.Plan, cmd inbound.GenerateMealPlanCommand) {
	if plan == nil {
		return
	}

	record := domain.NewRecord(plan, cmd.Ingredients, cmd.Preferences, s.now())

	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to store meal plan", zap.Error(err))
	} else {
		s.metrics.RecordPlanStored()
		s.logger.Info("Meal plan stored",
			zap.String("id", record.ID.String()),
			zap.Int("total_suggestions", record.TotalSuggestions),
			zap.String("source", string(plan.Source)))
	}

	s.cacheLatest(ctx, plan)
}

// Latest returns the most recent plan, from the cache or else from the repository
func (s *Service) Latest(ctx context.Context) (*domain.Plan, error) {
	data, err := s.cache.Get(ctx, LatestPlanKey)
	switch {
	case err == nil:
		var plan domain.Plan
		jsonErr := json.Unmarshal(data, &plan)
		if jsonErr == nil {
			return &plan, nil
		}
		s.logger.Warn("Discarding unreadable latest plan", zap.Error(jsonErr))
	case !errors.Is(err, outbound.ErrCacheMiss):
		s.logger.Warn("Latest plan cache read failed", zap.Error(err))
	}

	records, err := s.repo.FindRecent(ctx, outbound.RecentQuery{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || records[0].Plan == nil {
		return nil, apperrors.NewNotFoundError("meal plan")
	}

	plan := records[0].Plan
	s.cacheLatest(ctx, plan)
	return plan, nil
}

// Recent lists stored plans newest first
func (s *Service) Recent(ctx context.Context, limit int, genre domain.Genre) ([]*domain.Record, error) {
	return s.repo.FindRecent(ctx, outbound.RecentQuery{Limit: limit, Genre: genre})
}

func (s *Service) cacheLatest(ctx context.Context, plan *domain.Plan) {
	data, err := json.Marshal(plan)
	if err != nil {
		s.logger.Error("Failed to encode latest plan", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, LatestPlanKey, data, s.latestTTL); err != nil {
		s.logger.Warn("Failed to cache latest plan", zap.Error(err))
	}
}
