package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/kondate/mealplanner/internal/domain/mealplan"
	"github.com/kondate/mealplanner/internal/ports/outbound"
	apperrors "github.com/kondate/mealplanner/pkg/errors"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

var _ outbound.MealPlanRepository = (*MealPlanRepository)(nil)

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) *MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Save inserts a generated plan
func (r *MealPlanRepository) Save(ctx context.Context, record *mealplan.Record) error {
	model := RecordToModel(record)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.NewDatabaseError("save meal plan", err)
	}

	record.ID = model.ID
	record.CreatedAt = model.CreatedAt
	return nil
}

// FindRecent returns plans newest first, optionally filtered by cuisine
func (r *MealPlanRepository) FindRecent(ctx context.Context, query outbound.RecentQuery) ([]*mealplan.Record, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	tx := r.db.WithContext(ctx).Model(&MealPlanModel{})
	if query.Genre != "" {
		tx = tx.Where("cuisine_type = ?", string(query.Genre))
	}

	var models []MealPlanModel
	if err := tx.Order("generated_at DESC").Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, apperrors.NewDatabaseError("find recent meal plans", err)
	}

	records := make([]*mealplan.Record, 0, len(models))
	for i := range models {
		records = append(records, ModelToRecord(&models[i]))
	}
	return records, nil
}
