package gorm

import (
	"github.com/kondate/mealplanner/internal/domain/mealplan"
)

// RecordToModel converts a domain record to its GORM model
func RecordToModel(r *mealplan.Record) *MealPlanModel {
	model := &MealPlanModel{
		ID:                  r.ID,
		Preferences:         JSONColumn[mealplan.Preferences]{Data: r.Preferences},
		CuisineType:         string(r.Preferences.Genre),
		Theme:               string(r.Preferences.Theme),
		TotalSuggestions:    r.TotalSuggestions,
		OriginalIngredients: r.OriginalIngredients,
		GeneratedAt:         r.GeneratedAt,
		CreatedAt:           r.CreatedAt,
	}

	if r.Plan != nil {
		model.MealSuggestions = JSONColumn[mealplan.Plan]{Data: *r.Plan}
		model.Source = string(r.Plan.Source)
	}

	return model
}

// ModelToRecord converts a GORM model back to the domain record
func ModelToRecord(m *MealPlanModel) *mealplan.Record {
	plan := m.MealSuggestions.Data
	plan.Source = mealplan.Source(m.Source)

	return &mealplan.Record{
		ID:                  m.ID,
		Plan:                &plan,
		Preferences:         m.Preferences.Data,
		TotalSuggestions:    m.TotalSuggestions,
		OriginalIngredients: m.OriginalIngredients,
		GeneratedAt:         m.GeneratedAt,
		CreatedAt:           m.CreatedAt,
	}
}
