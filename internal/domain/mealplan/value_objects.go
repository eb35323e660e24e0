package mealplan

import (
	"errors"
	"strings"
)

var (
	ErrUnknownGenre = errors.New("unknown cuisine genre")
	ErrUnknownTheme = errors.New("unknown theme")
)

// Genre is a cuisine family constraint
type Genre string

const (
	GenreJapanese      Genre = "japanese"
	GenreWestern       Genre = "western"
	GenreChinese       Genre = "chinese"
	GenreEthnic        Genre = "ethnic"
	GenreMultinational Genre = "multinational"
)

var genreAliases = map[string]Genre{
	"japanese":      GenreJapanese,
	"和風":            GenreJapanese,
	"和食":            GenreJapanese,
	"western":       GenreWestern,
	"洋風":            GenreWestern,
	"洋食":            GenreWestern,
	"chinese":       GenreChinese,
	"中華":            GenreChinese,
	"ethnic":        GenreEthnic,
	"エスニック":         GenreEthnic,
	"multinational": GenreMultinational,
	"多国籍":           GenreMultinational,
}

// ParseGenre accepts canonical names and Japanese labels. Empty input is "not set".
func ParseGenre(s string) (Genre, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if g, ok := genreAliases[s]; ok {
		return g, nil
	}
	return "", ErrUnknownGenre
}

// Theme is a named bundle of nutritional, time and technique constraints
type Theme string

const (
	ThemeEasy       Theme = "easy"
	ThemeHealthy    Theme = "healthy"
	ThemeHearty     Theme = "hearty"
	ThemeBudget     Theme = "budget"
	ThemeMuscleGain Theme = "muscle_gain"
)

var themeAliases = map[string]Theme{
	"easy":        ThemeEasy,
	"quick":       ThemeEasy,
	"時短":          ThemeEasy,
	"healthy":     ThemeHealthy,
	"ヘルシー":        ThemeHealthy,
	"hearty":      ThemeHearty,
	"がっつり":        ThemeHearty,
	"budget":      ThemeBudget,
	"節約":          ThemeBudget,
	"muscle_gain": ThemeMuscleGain,
	"筋トレ":         ThemeMuscleGain,

	"high_protein": ThemeMuscleGain,
}

// ParseTheme accepts canonical names, a few English synonyms and Japanese labels
func ParseTheme(s string) (Theme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if t, ok := themeAliases[s]; ok {
		return t, nil
	}
	return "", ErrUnknownTheme
}
