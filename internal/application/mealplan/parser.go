package mealplan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	domain "github.com/kondate/mealplanner/internal/domain/mealplan"
)

var (
	// ErrParseFailed means no JSON could be decoded from the reply
	ErrParseFailed = errors.New("completion reply is not valid JSON")
	// ErrResponseMalformed means the JSON does not have the expected shape
	ErrResponseMalformed = errors.New("completion reply is malformed")
)

const (
	jsonFence  = "```json"
	fenceClose = "```"

	videoSearchURL = "https://www.youtube.com/results?search_query="
	webSearchURL   = "https://www.google.com/search?q="
	recipeSiteName = "cookpad"
)

type wirePlan struct {
	MainDish      json.RawMessage `json:"main_dish"`
	SideDish      json.RawMessage `json:"side_dish"`
	Soup          json.RawMessage `json:"soup"`
	TotalCalories domain.Text     `json:"total_calories"`
	CookingTips   domain.Text     `json:"cooking_tips"`
}

type wireDish struct {
	Name        string      `json:"name"`
	Ingredients []string    `json:"ingredients"`
	CookingTime domain.Text `json:"cooking_time"`
	Calories    domain.Text `json:"calories"`
}

// ParsePlan decodes a three-dish plan from a completion reply
func ParsePlan(raw string) (*domain.Plan, error) {
	data, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var wp wirePlan
	if err := json.Unmarshal(data, &wp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseMalformed, err)
	}

	main, err := decodeDish(string(domain.DishTypeMain), wp.MainDish)
	if err != nil {
		return nil, err
	}
	side, err := decodeDish(string(domain.DishTypeSide), wp.SideDish)
	if err != nil {
		return nil, err
	}
	soup, err := decodeDish(string(domain.DishTypeSoup), wp.Soup)
	if err != nil {
		return nil, err
	}

	main.Category = domain.DishTypeMain
	side.Category = domain.DishTypeSide
	soup.Category = domain.DishTypeSoup

	return &domain.Plan{
		MainDish:      main,
		SideDish:      side,
		Soup:          soup,
		TotalCalories: wp.TotalCalories,
		CookingTips:   string(wp.CookingTips),
		Source:        domain.SourceCompletion,
	}, nil
}

// ParseDish decodes a single dish object from a completion reply
func ParseDish(raw string) (*domain.Dish, error) {
	data, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	return decodeDish("dish", data)
}

// The interior of the first ```json fence wins; otherwise the whole reply is parsed.
func extractJSON(raw string) ([]byte, error) {
	body := strings.TrimSpace(raw)
	if start := strings.Index(raw, jsonFence); start >= 0 {
		rest := raw[start+len(jsonFence):]
		if end := strings.Index(rest, fenceClose); end >= 0 {
			body = strings.TrimSpace(rest[:end])
		}
	}

	data := []byte(body)
	if len(data) == 0 || !json.Valid(data) {
		return nil, ErrParseFailed
	}
	return data, nil
}

func decodeDish(field string, raw json.RawMessage) (*domain.Dish, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: missing field %q", ErrResponseMalformed, field)
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: field %q is not an object", ErrResponseMalformed, field)
	}

	var wd wireDish
	if err := json.Unmarshal(trimmed, &wd); err != nil {
		return nil, fmt.Errorf("%w: field %q: %v", ErrResponseMalformed, field, err)
	}

	name := strings.TrimSpace(wd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: missing field %q", ErrResponseMalformed, field+".name")
	}

	ingredients := wd.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	return &domain.Dish{
		Name:        name,
		Ingredients: ingredients,
		CookingTime: wd.CookingTime,
		Calories:    wd.Calories,
		RecipeLinks: RecipeLinksFor(name),
	}, nil
}

// RecipeLinksFor builds video and web search links for a dish name
func RecipeLinksFor(name string) *domain.RecipeLinks {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return &domain.RecipeLinks{
		Video: videoSearchURL + queryEscape(name+" recipe"),
		Web:   webSearchURL + queryEscape(name+" recipe "+recipeSiteName),
	}
}

// url.QueryEscape encodes spaces as "+"; literal plus signs are already %2B.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
