package mealplan

import (
	"fmt"
	"strings"
)

const (
	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"

	defaultDressing = "dressing"
)

type mainDishTemplate struct {
	keywords     []string
	name         func(ingredient string) string
	description  string
	cookingTime  Text
	difficulty   string
	instructions []string
}

// Checked in order; the first matching keyword group wins.
var mainDishTemplates = []mainDishTemplate{
	{
		keywords:    []string{"beef", "牛肉", "赤身"},
		name:        func(string) string { return "Beef and Vegetable Stir-Fry" },
		description: "Juicy beef stir-fried with fresh vegetables for a well balanced plate",
		cookingTime: "20",
		difficulty:  DifficultyNormal,
		instructions: []string{
			"Cut the beef into bite-sized pieces",
			"Cut the vegetables into easy-to-eat pieces",
			"Heat a frying pan and stir-fry the beef",
			"Add the vegetables and toss together",
			"Season to taste",
		},
	},
	{
		keywords:    []string{"pork", "豚肉", "ロース"},
		name:        func(string) string { return "Ginger Pork (Shogayaki)" },
		description: "The classic sweet and savoury ginger pork that goes perfectly with rice",
		cookingTime: "15",
		difficulty:  DifficultyEasy,
		instructions: []string{
			"Marinate the pork lightly",
			"Slice the onion",
			"Pan-fry the pork",
			"Add the onion and stir-fry",
			"Coat with the ginger sauce",
		},
	},
	{
		keywords:    []string{"chicken", "鶏肉", "むね肉", "もも肉"},
		name:        func(string) string { return "Healthy Chicken Sauté" },
		description: "A high-protein, low-fat chicken dish that suits a diet",
		cookingTime: "25",
		difficulty:  DifficultyNormal,
		instructions: []string{
			"Season the chicken with salt and pepper",
			"Pan-fry skin side down",
			"Turn over and cook through",
			"Finish with lemon and herbs",
		},
	},
}

var simmeredTemplate = mainDishTemplate{
	name:        func(ingredient string) string { return "Simmered " + ingredient },
	description: "A comforting dish gently simmered in Japanese stock",
	cookingTime: "30",
	difficulty:  DifficultyNormal,
	instructions: []string{
		"Prepare the main ingredient",
		"Warm the stock",
		"Add the ingredients and simmer",
		"Season to taste",
	},
}

func templateFor(ingredient string) mainDishTemplate {
	name := strings.ToLower(ingredient)
	for _, t := range mainDishTemplates {
		if containsAny(name, t.keywords) {
			return t
		}
	}
	return simmeredTemplate
}

// Compose builds the rule-based suggestions: a main dish when a meat or fish item
// exists, a salad from two vegetables, and a miso soup from at least one vegetable.
// Ids run 1..n over the dishes actually produced. It never fails.
func Compose(c Classified) []Dish {
	var dishes []Dish
	nextID := 1

	if len(c.MeatOrFish) > 0 {
		dishes = append(dishes, composeMainDish(c.MeatOrFish[0], c.Vegetables, c.Seasonings, nextID))
		nextID++
	}

	if len(c.Vegetables) >= 2 {
		dishes = append(dishes, composeSideDish(c.Vegetables, c.Seasonings, nextID))
		nextID++
	}

	if len(c.Vegetables) >= 1 {
		dishes = append(dishes, composeSoup(c.Vegetables, nextID))
	}

	return dishes
}

func composeMainDish(main Ingredient, vegetables, seasonings []Ingredient, id int) Dish {
	t := templateFor(main.Name)

	ingredients := []string{main.Name}
	ingredients = append(ingredients, names(vegetables, 2)...)
	ingredients = append(ingredients, names(seasonings, 2)...)

	return Dish{
		ID:           id,
		Name:         t.name(main.Name),
		Description:  t.description,
		Category:     DishTypeMain,
		Ingredients:  ingredients,
		CookingTime:  t.cookingTime,
		Difficulty:   t.difficulty,
		Instructions: append([]string(nil), t.instructions...),
	}
}

func composeSideDish(vegetables, seasonings []Ingredient, id int) Dish {
	first, second := vegetables[0].Name, vegetables[1].Name
	seasoning := defaultDressing
	if len(seasonings) > 0 {
		seasoning = seasonings[0].Name
	}

	return Dish{
		ID:          id,
		Name:        fmt.Sprintf("%s and %s Salad", first, second),
		Description: "A colourful salad packed with fresh vegetables",
		Category:    DishTypeSide,
		Ingredients: []string{first, second, seasoning},
		CookingTime: "10",
		Difficulty:  DifficultyEasy,
		Instructions: []string{
			"Wash the vegetables well",
			"Cut into easy-to-eat pieces",
			"Arrange on a plate",
			"Dress to taste",
		},
	}
}

func composeSoup(vegetables []Ingredient, id int) Dish {
	ingredients := names(vegetables, 3)
	ingredients = append(ingredients, "miso", "stock")

	return Dish{
		ID:          id,
		Name:        "Vegetable Miso Soup",
		Description: "A warming miso soup full of nourishing vegetables",
		Category:    DishTypeSoup,
		Ingredients: ingredients,
		CookingTime: "15",
		Difficulty:  DifficultyEasy,
		Instructions: []string{
			"Warm the stock",
			"Add the vegetables, firmest first, and simmer",
			"Dissolve the miso",
			"Finish with chopped green onion",
		},
	}
}
