package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kondate/mealplanner/internal/application/mealplan"
	domain "github.com/kondate/mealplanner/internal/domain/mealplan"
	"github.com/kondate/mealplanner/internal/infrastructure/config"
	"github.com/kondate/mealplanner/internal/infrastructure/container"
	"github.com/kondate/mealplanner/internal/ports/inbound"
	"github.com/kondate/mealplanner/pkg/logger"
)

// serviceBuilder loads configuration and returns a ready service plus its cleanup
type serviceBuilder func(configPath string) (inbound.MealPlanService, func(), error)

// buildService wires the same generator the API uses, logging to stderr
func buildService(configPath string) (inbound.MealPlanService, func(), error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, nil, err
	}

	svc := mealplan.NewService(container.NewCompleter(cfg, log), nil, log)
	return svc, func() { _ = log.Sync() }, nil
}

type generateOptions struct {
	ingredients []string
	genre       string
	theme       string
	mealType    string
	dietary     []string
	servings    int
}

type regenerateOptions struct {
	dishType    string
	ingredients []string
	genre       string
	theme       string
	current     domain.CurrentDishes
}

func newRootCmd(out io.Writer, build serviceBuilder) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "kondate",
		Short:         "Suggests a main dish, side dish and soup for the ingredients on hand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(
		newGenerateCmd(out, build, &cfgFile),
		newRegenerateCmd(out, build, &cfgFile),
	)
	return rootCmd
}

func newGenerateCmd(out io.Writer, build serviceBuilder, cfgFile *string) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate a meal plan",
		Example: "kondate generate -i beef:meat -i onion:vegetable --genre japanese --theme healthy --servings 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, err := parseIngredients(opts.ingredients)
			if err != nil {
				return err
			}
			prefs, err := parsePreferences(opts.genre, opts.theme)
			if err != nil {
				return err
			}
			prefs.MealType = opts.mealType
			prefs.DietaryRestrictions = opts.dietary

			svc, cleanup, err := build(*cfgFile)
			if err != nil {
				return err
			}
			defer cleanup()

			plan, err := svc.Generate(cmd.Context(), inbound.GenerateMealPlanCommand{
				Ingredients: ingredients,
				Preferences: prefs,
				Servings:    opts.servings,
			})
			if err != nil {
				return err
			}
			return writeJSON(out, map[string]interface{}{
				"meal_suggestions":  plan,
				"total_suggestions": plan.TotalSuggestions(),
			})
		},
	}

	cmd.Flags().StringArrayVarP(&opts.ingredients, "ingredient", "i", nil, "ingredient as name:category (repeatable)")
	cmd.Flags().StringVar(&opts.genre, "genre", "", "cuisine genre: japanese, western, chinese, ethnic or multinational")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "meal theme: easy, healthy, hearty, budget or muscle_gain")
	cmd.Flags().StringVar(&opts.mealType, "meal-type", "", "meal type, for example dinner")
	cmd.Flags().StringSliceVar(&opts.dietary, "dietary", nil, "dietary restrictions, comma separated")
	cmd.Flags().IntVar(&opts.servings, "servings", 0, "number of servings")
	return cmd
}

func newRegenerateCmd(out io.Writer, build serviceBuilder, cfgFile *string) *cobra.Command {
	var opts regenerateOptions

	cmd := &cobra.Command{
		Use:     "regenerate",
		Short:   "Regenerate one dish of an existing plan",
		Example: `kondate regenerate --dish-type soup -i tofu:protein --main "Ginger Pork" --soup "Miso Soup"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, err := parseIngredients(opts.ingredients)
			if err != nil {
				return err
			}
			prefs, err := parsePreferences(opts.genre, opts.theme)
			if err != nil {
				return err
			}

			svc, cleanup, err := build(*cfgFile)
			if err != nil {
				return err
			}
			defer cleanup()

			dish, err := svc.RegenerateDish(cmd.Context(), inbound.RegenerateDishCommand{
				DishType:      opts.dishType,
				Ingredients:   ingredients,
				CurrentDishes: opts.current,
				Preferences:   prefs,
			})
			if err != nil {
				return err
			}
			return writeJSON(out, map[string]interface{}{
				"dish":      dish,
				"dish_type": opts.dishType,
			})
		},
	}

	cmd.Flags().StringVar(&opts.dishType, "dish-type", "", "main_dish, side_dish or soup")
	cmd.Flags().StringArrayVarP(&opts.ingredients, "ingredient", "i", nil, "ingredient as name:category (repeatable)")
	cmd.Flags().StringVar(&opts.genre, "genre", "", "cuisine genre")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "meal theme")
	cmd.Flags().StringVar(&opts.current.MainDish, "main", "", "current main dish")
	cmd.Flags().StringVar(&opts.current.SideDish, "side", "", "current side dish")
	cmd.Flags().StringVar(&opts.current.Soup, "soup", "", "current soup")
	_ = cmd.MarkFlagRequired("dish-type")
	return cmd
}

// parseIngredients splits name:category pairs
func parseIngredients(raw []string) ([]domain.Ingredient, error) {
	out := make([]domain.Ingredient, 0, len(raw))
	for _, r := range raw {
		name, category, ok := strings.Cut(r, ":")
		name, category = strings.TrimSpace(name), strings.TrimSpace(category)
		if !ok || name == "" || category == "" {
			return nil, fmt.Errorf("invalid ingredient %q, want name:category", r)
		}
		out = append(out, domain.Ingredient{Name: name, Category: category})
	}
	return out, nil
}

func parsePreferences(genre, theme string) (domain.Preferences, error) {
	g, err := domain.ParseGenre(genre)
	if err != nil {
		return domain.Preferences{}, err
	}
	t, err := domain.ParseTheme(theme)
	if err != nil {
		return domain.Preferences{}, err
	}
	return domain.Preferences{Genre: g, Theme: t}, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
