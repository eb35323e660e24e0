package mealplan

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kondate/mealplanner/internal/domain/ai"
	domain "github.com/kondate/mealplanner/internal/domain/mealplan"
	"github.com/kondate/mealplanner/internal/ports/inbound"
	apperrors "github.com/kondate/mealplanner/pkg/errors"
)

var beefOnionCarrot = []domain.Ingredient{
	{Name: "beef", Category: "meat"},
	{Name: "onion", Category: "vegetable"},
	{Name: "carrot", Category: "vegetable"},
}

func TestService_Generate_RuleBasedWithoutCompleter(t *testing.T) {
	service := NewService(nil, nil, zaptest.NewLogger(t))

	plan, err := service.Generate(context.Background(), inbound.GenerateMealPlanCommand{Ingredients: beefOnionCarrot})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceRuleBased, plan.Source)
	require.Equal(t, 3, plan.TotalSuggestions())
	assert.Equal(t, "Beef and Vegetable Stir-Fry", plan.MainDish.Name)
	assert.Equal(t, []string{"beef", "onion", "carrot"}, plan.MainDish.Ingredients)
	assert.Equal(t, "onion and carrot Salad", plan.SideDish.Name)
	assert.Equal(t, []string{"onion", "carrot", "miso", "stock"}, plan.Soup.Ingredients)
}

func TestService_Generate_EmptyIngredients(t *testing.T) {
	service := NewService(nil, nil, zaptest.NewLogger(t))

	for _, prefs := range []domain.Preferences{
		{},
		{Genre: domain.GenreWestern, Theme: domain.ThemeHearty, DietaryRestrictions: []string{"vegan"}},
	} {
		plan, err := service.Generate(context.Background(), inbound.GenerateMealPlanCommand{Preferences: prefs})
		assert.Nil(t, plan)
		assert.True(t, apperrors.Is(err, apperrors.CodeEmptyIngredients))
	}
}

func TestService_Generate_UsesCompletion(t *testing.T) {
	completer := new(MockCompletionService)
	metrics := new(MockMetrics)

	completer.On("Complete", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(user string) bool {
		return user == "Ingredients: beef, onion, carrot\nPlease plan a meal for 3 people."
	})).Return(&ai.Completion{Content: fencedPlan, Model: "gpt-3.5-turbo"}, nil)
	metrics.On("RecordGeneration", operationGenerate, domain.SourceCompletion, mock.Anything).Return()

	service := NewService(completer, metrics, zaptest.NewLogger(t))

	plan, err := service.Generate(context.Background(), inbound.GenerateMealPlanCommand{Ingredients: beefOnionCarrot, Servings: 3})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceCompletion, plan.Source)
	assert.Equal(t, "X", plan.MainDish.Name)
	assert.Equal(t, "tip", plan.CookingTips)
	completer.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestService_Generate_FallsBackOnCompletionFailure(t *testing.T) {
	kinds := []ai.FailureKind{
		ai.FailureRateLimited,
		ai.FailureInvalidRequest,
		ai.FailureAuthenticationFailed,
		ai.FailureTimedOut,
		ai.FailureUnknown,
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			completer := new(MockCompletionService)
			metrics := new(MockMetrics)

			completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, ai.NewGenerationError(kind, 0, "failed", nil))
			metrics.On("RecordCompletionFailure", kind).Return()
			metrics.On("RecordFallback", operationGenerate, string(kind)).Return()
			metrics.On("RecordGeneration", operationGenerate, domain.SourceRuleBased, mock.Anything).Return()

			service := NewService(completer, metrics, zaptest.NewLogger(t))

			plan, err := service.Generate(context.Background(), inbound.GenerateMealPlanCommand{Ingredients: beefOnionCarrot})
			require.NoError(t, err)
			assert.Equal(t, domain.SourceRuleBased, plan.Source)
			assert.Equal(t, 3, plan.TotalSuggestions())
			metrics.AssertExpectations(t)
		})
	}
}

func TestService_Generate_FallsBackOnUnparseableReply(t *testing.T) {
	completer := new(MockCompletionService)
	metrics := new(MockMetrics)

	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.Completion{Content: "Sorry, I cannot plan meals today."}, nil)
	metrics.On("RecordFallback", operationGenerate, "parse_failed").Return()
	metrics.On("RecordGeneration", operationGenerate, domain.SourceRuleBased, mock.Anything).Return()

	service := NewService(completer, metrics, zaptest.NewLogger(t))

	plan, err := service.Generate(context.Background(), inbound.GenerateMealPlanCommand{Ingredients: beefOnionCarrot})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceRuleBased, plan.Source)
	metrics.AssertExpectations(t)
}

func TestService_Generate_FallsBackOnMalformedReply(t *testing.T) {
	completer := new(MockCompletionService)
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.Completion{Content: `{"main_dish":{"name":"A"}}`}, nil)

	service := NewService(completer, nil, zaptest.NewLogger(t))

	plan, err := service.Generate(context.Background(), inbound.GenerateMealPlanCommand{Ingredients: beefOnionCarrot})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceRuleBased, plan.Source)
	assert.Equal(t, "Beef and Vegetable Stir-Fry", plan.MainDish.Name)
}

func TestService_Generate_ResultShapeIsUniformAcrossPaths(t *testing.T) {
	completer := new(MockCompletionService)
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.Completion{Content: fencedPlan}, nil)

	fromCompletion, err := NewService(completer, nil, zaptest.NewLogger(t)).
		Generate(context.Background(), inbound.GenerateMealPlanCommand{Ingredients: beefOnionCarrot})
	require.NoError(t, err)

	fromRules, err := NewService(nil, nil, zaptest.NewLogger(t)).
		Generate(context.Background(), inbound.GenerateMealPlanCommand{Ingredients: beefOnionCarrot})
	require.NoError(t, err)

	assert.IsType(t, fromCompletion, fromRules)
	assert.Equal(t, fromCompletion.TotalSuggestions(), fromRules.TotalSuggestions())
	assert.NotEqual(t, fromCompletion.Source, fromRules.Source)
}

func TestService_Generate_RecoversFromPanic(t *testing.T) {
	completer := new(MockCompletionService)
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("client exploded") }).
		Return(nil, nil)

	service := NewService(completer, nil, zaptest.NewLogger(t))

	_, err := service.Generate(context.Background(), inbound.GenerateMealPlanCommand{Ingredients: beefOnionCarrot})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeGenerationFailed))
	assert.Equal(t, "An error occurred while generating the meal plan", err.(*apperrors.AppError).Message)
}

func TestService_RegenerateDish_Validation(t *testing.T) {
	service := NewService(nil, nil, zaptest.NewLogger(t))
	current := domain.CurrentDishes{MainDish: "Ginger Pork", SideDish: "Salad", Soup: "Miso Soup"}

	tests := []struct {
		name string
		cmd  inbound.RegenerateDishCommand
		code apperrors.ErrorCode
	}{
		{"missing dish type", inbound.RegenerateDishCommand{Ingredients: beefOnionCarrot, CurrentDishes: current}, apperrors.CodeMissingDishType},
		{"invalid dish type", inbound.RegenerateDishCommand{DishType: "dessert", Ingredients: beefOnionCarrot, CurrentDishes: current}, apperrors.CodeInvalidDishType},
		{"missing current dishes", inbound.RegenerateDishCommand{DishType: "main_dish", Ingredients: beefOnionCarrot}, apperrors.CodeMissingCurrentDishes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dish, err := service.RegenerateDish(context.Background(), tt.cmd)
			assert.Nil(t, dish)
			assert.True(t, apperrors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestService_RegenerateDish_UsesCompletion(t *testing.T) {
	completer := new(MockCompletionService)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(system string) bool {
		return strings.Contains(system, "replacing only the main dish")
	}), mock.Anything).Return(&ai.Completion{Content: `{"name":"Nikujaga","ingredients":["beef","potato"],"cooking_time":30}`}, nil)

	service := NewService(completer, nil, zaptest.NewLogger(t))

	dish, err := service.RegenerateDish(context.Background(), inbound.RegenerateDishCommand{
		DishType:      "main_dish",
		Ingredients:   beefOnionCarrot,
		CurrentDishes: domain.CurrentDishes{MainDish: "Beef Stir-Fry", SideDish: "Salad", Soup: "Miso Soup"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Nikujaga", dish.Name)
	assert.Equal(t, domain.DishTypeMain, dish.Category)
	assert.Equal(t, domain.Text("30"), dish.CookingTime)
	assert.NotNil(t, dish.RecipeLinks)
}

func TestService_RegenerateDish_TemplateFallback(t *testing.T) {
	completer := new(MockCompletionService)
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ai.NewGenerationError(ai.FailureTimedOut, 0, "deadline exceeded", context.DeadlineExceeded))

	current := domain.CurrentDishes{MainDish: "Ginger Pork", SideDish: "Salad", Soup: "Miso Soup"}

	tests := []struct {
		dishType string
		want     string
	}{
		{"main_dish", "Pan-Fried beef with Ginger Sauce"},
		{"side_dish", "onion with Sesame Dressing"},
		{"soup", "onion and Egg Soup"},
	}

	for _, tt := range tests {
		t.Run(tt.dishType, func(t *testing.T) {
			for _, svc := range []*Service{
				NewService(completer, nil, zaptest.NewLogger(t)),
				NewService(nil, nil, zaptest.NewLogger(t)),
			} {
				dish, err := svc.RegenerateDish(context.Background(), inbound.RegenerateDishCommand{
					DishType:      tt.dishType,
					Ingredients:   beefOnionCarrot,
					CurrentDishes: current,
				})
				require.NoError(t, err)
				assert.Equal(t, tt.want, dish.Name)
				assert.Equal(t, domain.DishType(tt.dishType), dish.Category)
				assert.NotNil(t, dish.RecipeLinks)
			}
		})
	}
}

func TestService_RegenerateDish_TemplateWithoutMatchingIngredients(t *testing.T) {
	service := NewService(nil, nil, zaptest.NewLogger(t))

	dish, err := service.RegenerateDish(context.Background(), inbound.RegenerateDishCommand{
		DishType:      "main_dish",
		Ingredients:   []domain.Ingredient{{Name: "rice", Category: "grain"}},
		CurrentDishes: domain.CurrentDishes{Soup: "Miso Soup"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pan-Fried rice with Ginger Sauce", dish.Name)

	dish, err = service.RegenerateDish(context.Background(), inbound.RegenerateDishCommand{
		DishType:      "soup",
		CurrentDishes: domain.CurrentDishes{MainDish: "Ginger Pork"},
	})
	require.NoError(t, err)
	assert.Equal(t, "seasonal vegetables and Egg Soup", dish.Name)
}
