package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	ingredients := []Ingredient{
		{Name: "salmon", Category: "Fish"},
		{Name: "onion", Category: "vegetable"},
		{Name: "shiitake", Category: "mushroom"},
		{Name: "豚肉", Category: "肉類"},
		{Name: "natto", Category: "豆製品"},
		{Name: "soy sauce", Category: "seasoning"},
		{Name: "olive oil", Category: "oil"},
		{Name: "rice", Category: "grain"},
	}

	c := Classify(ingredients)

	assert.Equal(t, []Ingredient{ingredients[0], ingredients[3]}, c.MeatOrFish)
	assert.Equal(t, []Ingredient{ingredients[1], ingredients[2], ingredients[4]}, c.Vegetables)
	assert.Equal(t, []Ingredient{ingredients[5], ingredients[6]}, c.Seasonings)
}

func TestClassify_OverlappingCategoryLandsInBothBuckets(t *testing.T) {
	c := Classify([]Ingredient{{Name: "bean paste", Category: "bean seasoning"}})

	assert.Len(t, c.Vegetables, 1)
	assert.Len(t, c.Seasonings, 1)
	assert.Empty(t, c.MeatOrFish)
}

func TestClassify_Empty(t *testing.T) {
	c := Classify(nil)

	assert.Empty(t, c.MeatOrFish)
	assert.Empty(t, c.Vegetables)
	assert.Empty(t, c.Seasonings)
}
