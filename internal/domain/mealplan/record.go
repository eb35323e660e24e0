package mealplan

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is a stored plan together with the request that produced it
type Record struct {
	ID                  uuid.UUID
	Plan                *Plan
	Preferences         Preferences
	TotalSuggestions    int
	OriginalIngredients string
	GeneratedAt         time.Time
	CreatedAt           time.Time
}

// NewRecord captures a generated plan for storage
func NewRecord(plan *Plan, ingredients []Ingredient, prefs Preferences, generatedAt time.Time) *Record {
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}

	return &Record{
		ID:                  uuid.New(),
		Plan:                plan,
		Preferences:         prefs,
		TotalSuggestions:    plan.TotalSuggestions(),
		OriginalIngredients: strings.Join(names, ", "),
		GeneratedAt:         generatedAt,
	}
}
