package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kondate/mealplanner/internal/domain/mealplan"
	"github.com/kondate/mealplanner/internal/ports/inbound"
	apperrors "github.com/kondate/mealplanner/pkg/errors"
)

const maxListLimit = 50

// MealPlanHandlers handles the meal plan endpoints
type MealPlanHandlers struct {
	responder
	mealPlans inbound.MealPlanService
	history   inbound.HistoryService
	now       func() time.Time
}

// NewMealPlanHandlers creates a new meal plan handlers instance
func NewMealPlanHandlers(
	mealPlans inbound.MealPlanService,
	history inbound.HistoryService,
	logger *zap.Logger,
) *MealPlanHandlers {
	return &MealPlanHandlers{
		responder: responder{
			logger:   logger.Named("meal-plan-handlers"),
			validate: newValidator(),
		},
		mealPlans: mealPlans,
		history:   history,
		now:       time.Now,
	}
}

// IngredientParams is one ingredient in a request body
type IngredientParams struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"required,max=50"`
}

// PreferenceParams carries the optional generation preferences
type PreferenceParams struct {
	CuisineType         string   `json:"cuisine_type" validate:"max=32"`
	Theme               string   `json:"theme" validate:"max=32"`
	MealType            string   `json:"meal_type" validate:"max=32"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"max=10,dive,max=50"`
}

// GenerateMealPlanRequest is the body of POST /api/v1/meal_plans/generate
type GenerateMealPlanRequest struct {
	MealPlan *GenerateMealPlanParams `json:"meal_plan" validate:"required"`
}

// GenerateMealPlanParams are the generate parameters
type GenerateMealPlanParams struct {
	Ingredients []IngredientParams `json:"ingredients" validate:"required,min=1,max=50,dive"`
	Preferences PreferenceParams   `json:"preferences"`
	Servings    int                `json:"servings" validate:"gte=0,lte=20"`
}

// RegenerateDishRequest is the body of POST /api/v1/meal_plans/regenerate_dish
type RegenerateDishRequest struct {
	Regenerate *RegenerateDishParams `json:"regenerate" validate:"required"`
}

// RegenerateDishParams are the regenerate parameters
type RegenerateDishParams struct {
	DishType      string                 `json:"dish_type" validate:"omitempty,oneof=main_dish side_dish soup"`
	Ingredients   []IngredientParams     `json:"ingredients" validate:"required,min=1,max=50,dive"`
	CurrentDishes mealplan.CurrentDishes `json:"current_dishes" validate:"required"`
	Preferences   PreferenceParams       `json:"preferences"`
}

// GenerateMealPlanResponse is the data of a successful generate
type GenerateMealPlanResponse struct {
	MealSuggestions  *mealplan.Plan `json:"meal_suggestions"`
	TotalSuggestions int            `json:"total_suggestions"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// RegenerateDishResponse is the data of a successful regenerate
type RegenerateDishResponse struct {
	Dish        *mealplan.Dish `json:"dish"`
	DishType    string         `json:"dish_type"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// MealPlanRecordResponse is one stored plan
type MealPlanRecordResponse struct {
	ID                  string               `json:"id"`
	MealSuggestions     *mealplan.Plan       `json:"meal_suggestions"`
	Preferences         mealplan.Preferences `json:"preferences"`
	TotalSuggestions    int                  `json:"total_suggestions"`
	OriginalIngredients string               `json:"original_ingredients"`
	GeneratedAt         time.Time            `json:"generated_at"`
	CreatedAt           time.Time            `json:"created_at"`
}

// Generate handles POST /api/v1/meal_plans/generate
func (h *MealPlanHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateMealPlanRequest
	if appErr := h.decode(r, &req); appErr != nil {
		h.writeError(w, r, appErr)
		return
	}

	prefs, appErr := toPreferences(req.MealPlan.Preferences)
	if appErr != nil {
		h.writeError(w, r, appErr)
		return
	}

	cmd := inbound.GenerateMealPlanCommand{
		Ingredients: toIngredients(req.MealPlan.Ingredients),
		Preferences: prefs,
		Servings:    req.MealPlan.Servings,
	}

	plan, err := h.mealPlans.Generate(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.history.Record(r.Context(), plan, cmd)

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: GenerateMealPlanResponse{
			MealSuggestions:  plan,
			TotalSuggestions: plan.TotalSuggestions(),
			GeneratedAt:      h.now().UTC(),
		},
		Message: "Meal plan generated successfully",
	})
}

// RegenerateDish handles POST /api/v1/meal_plans/regenerate_dish
func (h *MealPlanHandlers) RegenerateDish(w http.ResponseWriter, r *http.Request) {
	var req RegenerateDishRequest
	if appErr := h.decode(r, &req); appErr != nil {
		h.writeError(w, r, appErr)
		return
	}

	prefs, appErr := toPreferences(req.Regenerate.Preferences)
	if appErr != nil {
		h.writeError(w, r, appErr)
		return
	}

	dish, err := h.mealPlans.RegenerateDish(r.Context(), inbound.RegenerateDishCommand{
		DishType:      req.Regenerate.DishType,
		Ingredients:   toIngredients(req.Regenerate.Ingredients),
		CurrentDishes: req.Regenerate.CurrentDishes,
		Preferences:   prefs,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: RegenerateDishResponse{
			Dish:        dish,
			DishType:    req.Regenerate.DishType,
			GeneratedAt: h.now().UTC(),
		},
		Message: "Dish regenerated successfully",
	})
}

// Latest handles GET /api/v1/meal_plans/latest
func (h *MealPlanHandlers) Latest(w http.ResponseWriter, r *http.Request) {
	plan, err := h.history.Latest(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"meal_suggestions":  plan,
			"total_suggestions": plan.TotalSuggestions(),
		},
		Message: "Latest meal plan retrieved successfully",
	})
}

// List handles GET /api/v1/meal_plans
func (h *MealPlanHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			h.writeError(w, r, apperrors.NewBadRequestError("limit must be an integer between 1 and 50"))
			return
		}
		limit = n
	}

	genre, err := mealplan.ParseGenre(r.URL.Query().Get("cuisine_type"))
	if err != nil {
		h.writeError(w, r, apperrors.NewBadRequestError(err.Error()))
		return
	}

	records, err := h.history.Recent(r.Context(), limit, genre)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items := make([]MealPlanRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, MealPlanRecordResponse{
			ID:                  rec.ID.String(),
			MealSuggestions:     rec.Plan,
			Preferences:         rec.Preferences,
			TotalSuggestions:    rec.TotalSuggestions,
			OriginalIngredients: rec.OriginalIngredients,
			GeneratedAt:         rec.GeneratedAt,
			CreatedAt:           rec.CreatedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"meal_plans": items,
			"count":      len(items),
		},
		Message: "Meal plans retrieved successfully",
	})
}

func toIngredients(params []IngredientParams) []mealplan.Ingredient {
	out := make([]mealplan.Ingredient, 0, len(params))
	for _, p := range params {
		out = append(out, mealplan.Ingredient{Name: p.Name, Category: p.Category})
	}
	return out
}

func toPreferences(p PreferenceParams) (mealplan.Preferences, *apperrors.AppError) {
	genre, err := mealplan.ParseGenre(p.CuisineType)
	if err != nil {
		return mealplan.Preferences{}, apperrors.NewBadRequestError(err.Error()).
			WithMetadata("cuisine_type", p.CuisineType)
	}
	theme, err := mealplan.ParseTheme(p.Theme)
	if err != nil {
		return mealplan.Preferences{}, apperrors.NewBadRequestError(err.Error()).
			WithMetadata("theme", p.Theme)
	}

	return mealplan.Preferences{
		Genre:               genre,
		Theme:               theme,
		DietaryRestrictions: p.DietaryRestrictions,
		MealType:            p.MealType,
	}, nil
}
