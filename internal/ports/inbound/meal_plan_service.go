// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/kondate/mealplanner/internal/domain/mealplan"
)

// MealPlanService defines the meal planning use cases
type MealPlanService interface {
	Generate(ctx context.Context, cmd GenerateMealPlanCommand) (*mealplan.Plan, error)
	RegenerateDish(ctx context.Context, cmd RegenerateDishCommand) (*mealplan.Dish, error)
}

// HistoryService records generated plans and reads them back
type HistoryService interface {
	Record(ctx context.Context, plan *mealplan.Plan, cmd GenerateMealPlanCommand)
	Latest(ctx context.Context) (*mealplan.Plan, error)
	Recent(ctx context.Context, limit int, genre mealplan.Genre) ([]*mealplan.Record, error)
}

// GenerateMealPlanCommand requests a whole plan. Servings defaults to 2 when zero.
type GenerateMealPlanCommand struct {
	Ingredients []mealplan.Ingredient
	Preferences mealplan.Preferences
	Servings    int
}

// RegenerateDishCommand requests one dish while the other two stay fixed
type RegenerateDishCommand struct {
	DishType      string
	Ingredients   []mealplan.Ingredient
	CurrentDishes mealplan.CurrentDishes
	Preferences   mealplan.Preferences
}
