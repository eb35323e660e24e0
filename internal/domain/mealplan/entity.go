// Package mealplan defines the meal plan domain: ingredients, dishes, plans and
// the deterministic rules used to compose a plan without the completion service.
package mealplan

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Ingredient is one item supplied by the caller
type Ingredient struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Preferences bias generation. Zero values mean "not set".
type Preferences struct {
	Genre               Genre    `json:"cuisine_type,omitempty"`
	Theme               Theme    `json:"theme,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	MealType            string   `json:"meal_type,omitempty"`
}

// DishType names one of the three slots of a plan
type DishType string

const (
	DishTypeMain DishType = "main_dish"
	DishTypeSide DishType = "side_dish"
	DishTypeSoup DishType = "soup"
)

// DishTypes lists the slots in plan order
var DishTypes = []DishType{DishTypeMain, DishTypeSide, DishTypeSoup}

// ParseDishType validates a dish type string
func ParseDishType(s string) (DishType, bool) {
	for _, t := range DishTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Text carries a value the completion service may send as a JSON string or
// number. Non-string JSON is kept verbatim.
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(raw)
	return nil
}

// RecipeLinks are search deep links derived from a dish name
type RecipeLinks struct {
	Video string `json:"youtube,omitempty"`
	Web   string `json:"website,omitempty"`
}

// Dish is a single suggested dish
type Dish struct {
	ID           int          `json:"id,omitempty"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Category     DishType     `json:"category,omitempty"`
	Ingredients  []string     `json:"ingredients"`
	CookingTime  Text         `json:"cooking_time,omitempty"`
	Calories     Text         `json:"calories,omitempty"`
	Difficulty   string       `json:"difficulty,omitempty"`
	Instructions []string     `json:"instructions,omitempty"`
	RecipeLinks  *RecipeLinks `json:"recipe_links,omitempty"`
}

// Source records which path produced a plan or dish. It is never serialized.
type Source string

const (
	SourceCompletion Source = "completion"
	SourceRuleBased  Source = "rule_based"
	SourceTemplate   Source = "template"
)

// Plan is a generated meal plan. Slots the rule-based path could not fill are nil.
type Plan struct {
	MainDish      *Dish  `json:"main_dish"`
	SideDish      *Dish  `json:"side_dish"`
	Soup          *Dish  `json:"soup"`
	TotalCalories Text   `json:"total_calories,omitempty"`
	CookingTips   string `json:"cooking_tips,omitempty"`
	Source        Source `json:"-"`
}

// PlanFromSuggestions slots a flat suggestion list by dish category
func PlanFromSuggestions(dishes []Dish, source Source) *Plan {
	plan := &Plan{Source: source}
	for i := range dishes {
		d := dishes[i]
		switch d.Category {
		case DishTypeMain:
			plan.MainDish = &d
		case DishTypeSide:
			plan.SideDish = &d
		case DishTypeSoup:
			plan.Soup = &d
		}
	}
	return plan
}

// Dish returns the dish in the given slot
func (p *Plan) Dish(t DishType) *Dish {
	switch t {
	case DishTypeMain:
		return p.MainDish
	case DishTypeSide:
		return p.SideDish
	case DishTypeSoup:
		return p.Soup
	}
	return nil
}

// Suggestions returns the filled slots in plan order
func (p *Plan) Suggestions() []Dish {
	var out []Dish
	for _, t := range DishTypes {
		if d := p.Dish(t); d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// TotalSuggestions counts the filled slots
func (p *Plan) TotalSuggestions() int {
	return len(p.Suggestions())
}

// IngredientNames returns the distinct ingredients used across all dishes
func (p *Plan) IngredientNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, d := range p.Suggestions() {
		for _, name := range d.Ingredients {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

var leadingNumber = regexp.MustCompile(`\d+(\.\d+)?`)

// AverageCookingTime averages the first number found in each dish's cooking time.
// ok is false when no dish carries a numeric time.
func (p *Plan) AverageCookingTime() (minutes float64, ok bool) {
	var total float64
	var n int
	for _, d := range p.Suggestions() {
		m := leadingNumber.FindString(string(d.CookingTime))
		if m == "" {
			continue
		}
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		total += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

// CurrentDishes names the dishes a regeneration keeps fixed
type CurrentDishes struct {
	MainDish string `json:"main_dish"`
	SideDish string `json:"side_dish"`
	Soup     string `json:"soup"`
}

// IsEmpty reports whether no current dish is named
func (c CurrentDishes) IsEmpty() bool {
	return strings.TrimSpace(c.MainDish) == "" &&
		strings.TrimSpace(c.SideDish) == "" &&
		strings.TrimSpace(c.Soup) == ""
}

// Name returns the current dish name in a slot
func (c CurrentDishes) Name(t DishType) string {
	switch t {
	case DishTypeMain:
		return c.MainDish
	case DishTypeSide:
		return c.SideDish
	case DishTypeSoup:
		return c.Soup
	}
	return ""
}

// Others returns the names of the slots other than t
func (c CurrentDishes) Others(t DishType) map[DishType]string {
	out := make(map[DishType]string, 2)
	for _, slot := range DishTypes {
		if slot != t {
			out[slot] = c.Name(slot)
		}
	}
	return out
}
