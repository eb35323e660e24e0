package mealplan

import (
	"fmt"
	"strings"

	domain "github.com/kondate/mealplanner/internal/domain/mealplan"
	"github.com/kondate/mealplanner/internal/ports/inbound"
)

const defaultServings = 2

const persona = "You are an experienced home cook and nutritionist who plans Japanese-style home meals made of one main dish, one side dish and one soup."

const varietyInstruction = `Suggest a varied, balanced home-style meal.
Do not always fall back to the most common dishes. Use a different cooking method for each of the three dishes.`

const planSchema = `Respond with ONLY a valid JSON object in exactly this format:
` + "```json" + `
{
  "main_dish": {"name": "dish name", "ingredients": ["ingredient", "ingredient"], "cooking_time": "20 min", "calories": "350 kcal"},
  "side_dish": {"name": "dish name", "ingredients": ["ingredient"], "cooking_time": "10 min", "calories": "120 kcal"},
  "soup": {"name": "dish name", "ingredients": ["ingredient"], "cooking_time": "10 min", "calories": "60 kcal"},
  "total_calories": "530 kcal",
  "cooking_tips": "short tips for cooking the whole meal efficiently"
}
` + "```"

const dishSchema = `Respond with ONLY a valid JSON object in exactly this format:
` + "```json" + `
{"name": "dish name", "ingredients": ["ingredient", "ingredient"], "cooking_time": "15 min", "calories": "200 kcal"}
` + "```"

// BuildPlanPrompts assembles the system and user prompts for a whole plan
func BuildPlanPrompts(cmd inbound.GenerateMealPlanCommand) (system, user string) {
	prefs := cmd.Preferences

	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n")
	writeThemeOrVariety(&sb, prefs.Theme)
	sb.WriteString("\n\n")
	sb.WriteString(planSchema)
	sb.WriteString("\n\n")
	writeImportantNotes(&sb, prefs.Genre, []string{
		"Use the supplied ingredients as much as possible.",
		"Common seasonings such as salt, pepper, sugar, soy sauce and cooking oil may be used without listing them as supplied ingredients.",
		"Calories and cooking times must match the numeric targets of the selected theme when one is selected.",
		"Answer in the language the ingredients are written in.",
	})
	system = sb.String()

	sb.Reset()
	fmt.Fprintf(&sb, "Ingredients: %s\n", joinIngredientNames(cmd.Ingredients))
	fmt.Fprintf(&sb, "Please plan a meal %s.\n", servingsPhrase(cmd.Servings))
	if hint := cookingHint(cmd.Ingredients); hint != "" {
		sb.WriteString(hint)
		sb.WriteString("\n")
	}
	writePreferenceLines(&sb, prefs)
	user = strings.TrimRight(sb.String(), "\n")

	return system, user
}

// BuildRegeneratePrompts assembles prompts asking for one replacement dish
func BuildRegeneratePrompts(dishType domain.DishType, cmd inbound.RegenerateDishCommand) (system, user string) {
	prefs := cmd.Preferences
	guide, _ := domain.DishTypeGuideFor(dishType)

	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "You are replacing only the %s of an existing meal.\n", guide.Label)
	fmt.Fprintf(&sb, "A %s is %s. Typical examples: %s.\n\n", guide.Label, guide.Definition, strings.Join(guide.Examples, ", "))
	writeThemeOrVariety(&sb, prefs.Theme)
	sb.WriteString("\n\n")
	sb.WriteString(dishSchema)
	sb.WriteString("\n\n")
	writeImportantNotes(&sb, prefs.Genre, []string{
		fmt.Sprintf("The new %s must not duplicate or closely resemble any dish already in the meal.", guide.Label),
		"Use the supplied ingredients as much as possible.",
		"Common seasonings such as salt, pepper, sugar, soy sauce and cooking oil may be used without listing them as supplied ingredients.",
		"Answer in the language the ingredients are written in.",
	})
	system = sb.String()

	sb.Reset()
	fmt.Fprintf(&sb, "Ingredients: %s\n", joinIngredientNames(cmd.Ingredients))
	sb.WriteString("The rest of the meal stays as it is:\n")
	for _, slot := range domain.DishTypes {
		if slot == dishType {
			continue
		}
		other, _ := domain.DishTypeGuideFor(slot)
		name := cmd.CurrentDishes.Name(slot)
		if name == "" {
			name = "(not decided)"
		}
		fmt.Fprintf(&sb, "- %s: %s\n", other.Label, name)
	}
	if current := cmd.CurrentDishes.Name(dishType); current != "" {
		fmt.Fprintf(&sb, "Suggest a new %s to replace %q.\n", guide.Label, current)
	} else {
		fmt.Fprintf(&sb, "Suggest a new %s.\n", guide.Label)
	}
	writePreferenceLines(&sb, prefs)
	user = strings.TrimRight(sb.String(), "\n")

	return system, user
}

func writeThemeOrVariety(sb *strings.Builder, theme domain.Theme) {
	g, ok := domain.ThemeGuidelineFor(theme)
	if !ok {
		sb.WriteString(varietyInstruction)
		return
	}
	sb.WriteString(renderThemeGuideline(g))
}

func renderThemeGuideline(g domain.ThemeGuideline) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Theme: %s (strict)\n%s\n", g.Label, g.Summary)
	sb.WriteString("Hard limits:\n")

	switch {
	case g.MinTotalCalories > 0 && g.MaxTotalCalories > 0:
		fmt.Fprintf(&sb, "- total calories of the meal between %d and %d kcal\n", g.MinTotalCalories, g.MaxTotalCalories)
	case g.MinTotalCalories > 0:
		fmt.Fprintf(&sb, "- total calories of the meal at least %d kcal\n", g.MinTotalCalories)
	case g.MaxTotalCalories > 0:
		fmt.Fprintf(&sb, "- total calories of the meal at most %d kcal\n", g.MaxTotalCalories)
	}
	if g.MaxTotalMinutes > 0 {
		fmt.Fprintf(&sb, "- total cooking time of all three dishes within %d minutes\n", g.MaxTotalMinutes)
	}
	if g.MaxCostYen > 0 {
		fmt.Fprintf(&sb, "- ingredient cost within %d yen per person for the whole meal\n", g.MaxCostYen)
	}
	if g.MinProteinGrams > 0 {
		fmt.Fprintf(&sb, "- at least %dg of protein in the whole meal\n", g.MinProteinGrams)
	}
	if g.MaxFatGrams > 0 {
		fmt.Fprintf(&sb, "- no more than %dg of fat in the whole meal\n", g.MaxFatGrams)
	}

	fmt.Fprintf(&sb, "Prefer: %s\n", strings.Join(g.Include, ", "))
	fmt.Fprintf(&sb, "Avoid: %s\n", strings.Join(g.Avoid, ", "))
	fmt.Fprintf(&sb, "Techniques: %s", strings.Join(g.Techniques, ", "))
	return sb.String()
}

func renderGenreGuideline(g domain.GenreGuideline) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Cuisine genre: %s (top priority)\n%s\n", g.Label, g.Rule)
	fmt.Fprintf(&sb, "Allowed seasonings: %s\n", strings.Join(g.AllowedSeasonings, ", "))
	if len(g.ForbiddenSeasonings) > 0 {
		fmt.Fprintf(&sb, "Forbidden seasonings: %s\n", strings.Join(g.ForbiddenSeasonings, ", "))
	}
	fmt.Fprintf(&sb, "Techniques: %s\n", strings.Join(g.Techniques, ", "))
	fmt.Fprintf(&sb, "Example dishes: %s", strings.Join(g.ExampleDishes, ", "))
	if len(g.ForbiddenDishes) > 0 {
		fmt.Fprintf(&sb, "\nNever suggest: %s", strings.Join(g.ForbiddenDishes, ", "))
	}
	return sb.String()
}

func writeImportantNotes(sb *strings.Builder, genre domain.Genre, extra []string) {
	notes := []string{
		"The cuisine genre constraints take absolute precedence over every other instruction, including the theme.",
		"Never suggest a dish that belongs to a different genre. For example, omurice is not Chinese and must never be suggested for the Chinese genre.",
	}
	if g, ok := domain.GenreGuidelineFor(genre); ok && len(g.ForbiddenDishes) > 0 {
		notes = append(notes, fmt.Sprintf("For the %s genre the following dishes are forbidden: %s.", g.Label, strings.Join(g.ForbiddenDishes, ", ")))
	}
	notes = append(notes, extra...)

	sb.WriteString("Important notes:\n")
	for i, note := range notes {
		fmt.Fprintf(sb, "%d. %s\n", i+1, note)
	}
}

func writePreferenceLines(sb *strings.Builder, prefs domain.Preferences) {
	if g, ok := domain.GenreGuidelineFor(prefs.Genre); ok {
		sb.WriteString(renderGenreGuideline(g))
		sb.WriteString("\n")
	}
	if g, ok := domain.ThemeGuidelineFor(prefs.Theme); ok {
		fmt.Fprintf(sb, "Theme: %s\n", g.Label)
	}
	if len(prefs.DietaryRestrictions) > 0 {
		fmt.Fprintf(sb, "Dietary restrictions: %s\n", strings.Join(prefs.DietaryRestrictions, ", "))
	}
	if prefs.MealType != "" {
		fmt.Fprintf(sb, "Meal type: %s\n", prefs.MealType)
	}
}

func joinIngredientNames(ingredients []domain.Ingredient) string {
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}
	return strings.Join(names, ", ")
}

func servingsPhrase(servings int) string {
	if servings <= 0 {
		servings = defaultServings
	}
	if servings == 1 {
		return "for 1 person"
	}
	return fmt.Sprintf("for %d people", servings)
}

func cookingHint(ingredients []domain.Ingredient) string {
	var hasOil, hasChicken bool
	for _, ing := range ingredients {
		name := strings.ToLower(ing.Name)
		if isOil(name) || isOil(strings.ToLower(ing.Category)) {
			hasOil = true
		}
		if strings.Contains(name, "chicken") || strings.Contains(name, "鶏") {
			hasChicken = true
		}
	}

	switch {
	case hasOil && hasChicken:
		return "Oil and chicken are both available, so a fried chicken main dish such as karaage is recommended."
	case hasOil:
		return "Oil is available, so consider a fried or sautéed dish."
	}
	return ""
}

// Soy sauce (醤油) is not an oil even though it contains 油.
func isOil(s string) bool {
	if strings.Contains(s, "oil") {
		return true
	}
	return strings.Contains(strings.ReplaceAll(s, "醤油", ""), "油")
}
