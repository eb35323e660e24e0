package mealplan

import "strings"

var (
	meatOrFishKeywords = []string{"meat", "fish", "肉", "魚"}
	vegetableKeywords  = []string{"vegetable", "mushroom", "bean", "野菜", "きのこ", "豆"}
	seasoningKeywords  = []string{"seasoning", "spice", "oil", "調味料", "スパイス", "油"}
)

// Classified holds ingredients bucketed by category. An ingredient may appear in several buckets.
type Classified struct {
	MeatOrFish []Ingredient
	Vegetables []Ingredient
	Seasonings []Ingredient
}

// Classify buckets ingredients by substring match of their category, keeping input order
func Classify(ingredients []Ingredient) Classified {
	var c Classified
	for _, ing := range ingredients {
		category := strings.ToLower(ing.Category)
		if containsAny(category, meatOrFishKeywords) {
			c.MeatOrFish = append(c.MeatOrFish, ing)
		}
		if containsAny(category, vegetableKeywords) {
			c.Vegetables = append(c.Vegetables, ing)
		}
		if containsAny(category, seasoningKeywords) {
			c.Seasonings = append(c.Seasonings, ing)
		}
	}
	return c
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func names(ingredients []Ingredient, limit int) []string {
	if limit > len(ingredients) {
		limit = len(ingredients)
	}
	out := make([]string, 0, limit)
	for _, ing := range ingredients[:limit] {
		out = append(out, ing.Name)
	}
	return out
}
