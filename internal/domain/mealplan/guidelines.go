package mealplan

// ThemeGuideline holds the hard constraints of a theme. Zero numeric fields are unbounded.
type ThemeGuideline struct {
	Theme            Theme
	Label            string
	Summary          string
	MaxTotalMinutes  int
	MinTotalCalories int
	MaxTotalCalories int
	MaxCostYen       int
	MinProteinGrams  int
	MaxFatGrams      int
	Include          []string
	Avoid            []string
	Techniques       []string
}

// GenreGuideline restricts the dish vocabulary of a cuisine family
type GenreGuideline struct {
	Genre               Genre
	Label               string
	Rule                string
	AllowedSeasonings   []string
	ForbiddenSeasonings []string
	Techniques          []string
	ExampleDishes       []string
	ForbiddenDishes     []string
}

// DishTypeGuide describes a slot for regeneration prompts
type DishTypeGuide struct {
	DishType   DishType
	Label      string
	Definition string
	Examples   []string
}

var themeGuidelines = map[Theme]ThemeGuideline{
	ThemeEasy: {
		Theme:           ThemeEasy,
		Label:           "Quick & Easy",
		Summary:         "Every dish must be ready fast with minimal steps and washing up.",
		MaxTotalMinutes: 20,
		Include:         []string{"eggs", "tofu", "pre-cut vegetables", "canned fish", "thinly sliced meat"},
		Avoid:           []string{"long simmering", "deep frying", "dough or batter from scratch", "overnight marinating"},
		Techniques:      []string{"microwave", "one pan stir-fry", "quick blanching", "dressing raw vegetables"},
	},
	ThemeHealthy: {
		Theme:            ThemeHealthy,
		Label:            "Healthy",
		Summary:          "A light, balanced meal that is rich in vegetables.",
		MinTotalCalories: 500,
		MaxTotalCalories: 550,
		Include:          []string{"vegetables", "mushrooms", "seaweed", "fish", "tofu", "lean chicken"},
		Avoid:            []string{"deep-fried food", "cream sauces", "large amounts of butter", "processed meat"},
		Techniques:       []string{"steaming", "boiling", "grilling", "simmering in stock"},
	},
	ThemeHearty: {
		Theme:            ThemeHearty,
		Label:            "Hearty",
		Summary:          "A filling, satisfying meal with bold flavours.",
		MinTotalCalories: 900,
		Include:          []string{"meat", "rice bowls", "cheese", "potatoes", "fried dishes"},
		Avoid:            []string{"plain salads as the main dish", "small portions"},
		Techniques:       []string{"deep frying", "stir-frying over high heat", "braising"},
	},
	ThemeBudget: {
		Theme:      ThemeBudget,
		Label:      "Budget",
		Summary:    "A cheap meal built from everyday ingredients.",
		MaxCostYen: 250,
		Include:    []string{"bean sprouts", "cabbage", "tofu", "eggs", "chicken breast", "canned mackerel"},
		Avoid:      []string{"beef steak", "shrimp", "crab", "imported cheese", "out-of-season vegetables"},
		Techniques: []string{"using leftovers", "bulking with vegetables", "one pot cooking"},
	},
	ThemeMuscleGain: {
		Theme:           ThemeMuscleGain,
		Label:           "Muscle Gain",
		Summary:         "A high-protein, low-fat meal for training days.",
		MinProteinGrams: 50,
		MaxFatGrams:     20,
		Include:         []string{"chicken breast", "tuna", "egg whites", "tofu", "natto", "white fish"},
		Avoid:           []string{"fatty cuts of meat", "deep-fried food", "mayonnaise-heavy dressings"},
		Techniques:      []string{"grilling", "steaming", "boiling", "low-temperature cooking"},
	},
}

var genreGuidelines = map[Genre]GenreGuideline{
	GenreJapanese: {
		Genre:               GenreJapanese,
		Label:               "Japanese (washoku)",
		Rule:                "All three dishes must be Japanese home cooking.",
		AllowedSeasonings:   []string{"soy sauce", "miso", "mirin", "sake", "dashi", "rice vinegar", "sugar"},
		ForbiddenSeasonings: []string{"consommé", "oyster sauce", "doubanjiang", "fish sauce", "curry powder", "ketchup"},
		Techniques:          []string{"simmering (nimono)", "grilling (yakimono)", "steaming", "dressing (aemono)"},
		ExampleDishes:       []string{"nikujaga", "mackerel simmered in miso", "chikuzen-ni", "kinpira gobo", "spinach ohitashi"},
		ForbiddenDishes:     []string{"hamburg steak", "mapo tofu", "green curry", "minestrone"},
	},
	GenreWestern: {
		Genre:               GenreWestern,
		Label:               "Western (yoshoku)",
		Rule:                "All three dishes must be Western style.",
		AllowedSeasonings:   []string{"butter", "olive oil", "consommé", "tomato", "cream", "herbs", "cheese", "wine"},
		ForbiddenSeasonings: []string{"miso", "dashi", "doubanjiang", "fish sauce", "oyster sauce"},
		Techniques:          []string{"sautéing", "roasting", "baking", "stewing"},
		ExampleDishes:       []string{"hamburg steak", "chicken sauté", "potato salad", "caesar salad", "minestrone", "corn potage"},
		ForbiddenDishes:     []string{"miso soup", "mapo tofu", "nikujaga", "tom yum"},
	},
	GenreChinese: {
		Genre:               GenreChinese,
		Label:               "Chinese (chuka)",
		Rule:                "All three dishes must be Chinese style.",
		AllowedSeasonings:   []string{"oyster sauce", "doubanjiang", "sesame oil", "chicken stock", "garlic", "ginger", "shaoxing wine", "black vinegar"},
		ForbiddenSeasonings: []string{"miso", "butter", "consommé", "fish sauce", "mirin"},
		Techniques:          []string{"stir-frying over high heat", "steaming", "thickening with starch"},
		ExampleDishes:       []string{"mapo tofu", "qingjiao rousi", "egg drop soup", "bang bang chicken", "glass noodle salad"},
		ForbiddenDishes:     []string{"omurice", "miso soup", "nikujaga", "carbonara"},
	},
	GenreEthnic: {
		Genre:               GenreEthnic,
		Label:               "Ethnic (South-East Asian and beyond)",
		Rule:                "All three dishes must be ethnic style such as Thai, Vietnamese or Indian.",
		AllowedSeasonings:   []string{"fish sauce", "coconut milk", "lemongrass", "coriander", "chili", "lime", "curry paste", "cumin"},
		ForbiddenSeasonings: []string{"miso", "mirin", "dashi", "consommé"},
		Techniques:          []string{"stir-frying with spices", "simmering in coconut milk", "fresh herb salads"},
		ExampleDishes:       []string{"green curry", "gapao rice", "pho", "tom yum", "som tam", "tandoori chicken"},
		ForbiddenDishes:     []string{"miso soup", "nikujaga", "hamburg steak"},
	},
	GenreMultinational: {
		Genre:             GenreMultinational,
		Label:             "Multinational",
		Rule:              "Combine dishes from at least two different cuisines while keeping the meal coherent.",
		AllowedSeasonings: []string{"any seasoning that suits the chosen cuisine of each dish"},
		Techniques:        []string{"fusion of techniques across cuisines"},
		ExampleDishes:     []string{"tandoori chicken", "caprese salad", "miso soup", "gapao rice", "minestrone"},
	},
}

var dishTypeGuides = map[DishType]DishTypeGuide{
	DishTypeMain: {
		DishType:   DishTypeMain,
		Label:      "main dish",
		Definition: "the protein-centred centrepiece of the meal, served with rice",
		Examples:   []string{"ginger pork", "grilled salmon", "hamburg steak", "chicken karaage"},
	},
	DishTypeSide: {
		DishType:   DishTypeSide,
		Label:      "side dish",
		Definition: "a small vegetable-centred dish that complements the main dish",
		Examples:   []string{"spinach ohitashi", "kinpira gobo", "potato salad", "cucumber sunomono"},
	},
	DishTypeSoup: {
		DishType:   DishTypeSoup,
		Label:      "soup",
		Definition: "a light soup served alongside rice",
		Examples:   []string{"miso soup", "clear soup", "egg drop soup", "consommé soup"},
	},
}

// ThemeGuidelineFor returns the guideline of a theme
func ThemeGuidelineFor(t Theme) (ThemeGuideline, bool) {
	g, ok := themeGuidelines[t]
	return g, ok
}

// GenreGuidelineFor returns the guideline of a genre
func GenreGuidelineFor(g Genre) (GenreGuideline, bool) {
	gl, ok := genreGuidelines[g]
	return gl, ok
}

// DishTypeGuideFor returns the regeneration guide of a slot
func DishTypeGuideFor(t DishType) (DishTypeGuide, bool) {
	g, ok := dishTypeGuides[t]
	return g, ok
}
