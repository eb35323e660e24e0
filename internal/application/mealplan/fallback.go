package mealplan

import (
	"fmt"

	domain "github.com/kondate/mealplanner/internal/domain/mealplan"
)

const genericIngredient = "seasonal vegetables"

// templateDish is the single-dish stand-in used when regeneration cannot reach the completion service
func templateDish(dishType domain.DishType, ingredients []domain.Ingredient) domain.Dish {
	c := domain.Classify(ingredients)

	var d domain.Dish
	switch dishType {
	case domain.DishTypeMain:
		base := firstName(genericIngredient, c.MeatOrFish, ingredients)
		d = domain.Dish{
			Name:        fmt.Sprintf("Pan-Fried %s with Ginger Sauce", base),
			Ingredients: []string{base, "ginger", "soy sauce"},
			CookingTime: "20 min",
			Calories:    "350 kcal",
			Difficulty:  domain.DifficultyEasy,
		}
	case domain.DishTypeSide:
		base := firstName(genericIngredient, c.Vegetables, ingredients)
		d = domain.Dish{
			Name:        fmt.Sprintf("%s with Sesame Dressing", base),
			Ingredients: []string{base, "sesame", "soy sauce"},
			CookingTime: "10 min",
			Calories:    "90 kcal",
			Difficulty:  domain.DifficultyEasy,
		}
	default:
		base := firstName(genericIngredient, c.Vegetables, ingredients)
		d = domain.Dish{
			Name:        fmt.Sprintf("%s and Egg Soup", base),
			Ingredients: []string{base, "egg", "stock"},
			CookingTime: "10 min",
			Calories:    "70 kcal",
			Difficulty:  domain.DifficultyEasy,
		}
	}

	d.Category = dishType
	d.RecipeLinks = RecipeLinksFor(d.Name)
	return d
}

func firstName(fallback string, preferred, all []domain.Ingredient) string {
	if len(preferred) > 0 {
		return preferred[0].Name
	}
	if len(all) > 0 {
		return all[0].Name
	}
	return fallback
}
