package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/kondate/mealplanner/internal/domain/mealplan"
	"github.com/kondate/mealplanner/internal/ports/outbound"
	apperrors "github.com/kondate/mealplanner/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(context.Background(), DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file::memory:",
		MaxOpenConns: 1,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func testRecord(genre mealplan.Genre, generatedAt time.Time) *mealplan.Record {
	plan := &mealplan.Plan{
		MainDish: &mealplan.Dish{
			Name:        "Ginger Pork (Shogayaki)",
			Ingredients: []string{"pork", "ginger"},
			CookingTime: "15 minutes",
			Calories:    "450kcal",
			RecipeLinks: &mealplan.RecipeLinks{Video: "https://example.test/v", Web: "https://example.test/w"},
		},
		SideDish:      &mealplan.Dish{Name: "Cabbage and Carrot Salad", Ingredients: []string{"cabbage", "carrot"}},
		TotalCalories: "600kcal",
		CookingTips:   "Slice the pork thinly.",
		Source:        mealplan.SourceCompletion,
	}
	return mealplan.NewRecord(plan,
		[]mealplan.Ingredient{{Name: "pork", Category: "meat"}, {Name: "cabbage", Category: "vegetable"}},
		mealplan.Preferences{Genre: genre, Theme: mealplan.ThemeEasy},
		generatedAt)
}

func TestMealPlanRepository_SaveAndFindRecent(t *testing.T) {
	repo := NewMealPlanRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

	older := testRecord(mealplan.GenreJapanese, base)
	newer := testRecord(mealplan.GenreChinese, base.Add(time.Hour))
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))
	assert.False(t, newer.CreatedAt.IsZero())

	records, err := repo.FindRecent(ctx, outbound.RecentQuery{Limit: 5})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)

	got := records[0]
	assert.Equal(t, mealplan.SourceCompletion, got.Plan.Source)
	assert.Equal(t, "Ginger Pork (Shogayaki)", got.Plan.MainDish.Name)
	assert.Equal(t, mealplan.Text("15 minutes"), got.Plan.MainDish.CookingTime)
	assert.Equal(t, "https://example.test/v", got.Plan.MainDish.RecipeLinks.Video)
	assert.Nil(t, got.Plan.Soup)
	assert.Equal(t, mealplan.GenreChinese, got.Preferences.Genre)
	assert.Equal(t, mealplan.ThemeEasy, got.Preferences.Theme)
	assert.Equal(t, 2, got.TotalSuggestions)
	assert.Equal(t, "pork, cabbage", got.OriginalIngredients)
	assert.True(t, got.GeneratedAt.Equal(base.Add(time.Hour)))
}

func TestMealPlanRepository_FindRecentFiltersByGenre(t *testing.T) {
	repo := NewMealPlanRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, repo.Save(ctx, testRecord(mealplan.GenreJapanese, base)))
	require.NoError(t, repo.Save(ctx, testRecord(mealplan.GenreWestern, base.Add(time.Minute))))
	require.NoError(t, repo.Save(ctx, testRecord(mealplan.GenreJapanese, base.Add(2*time.Minute))))

	records, err := repo.FindRecent(ctx, outbound.RecentQuery{Genre: mealplan.GenreJapanese})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, mealplan.GenreJapanese, r.Preferences.Genre)
	}
}

func TestMealPlanRepository_FindRecentLimit(t *testing.T) {
	repo := NewMealPlanRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 12; i++ {
		require.NoError(t, repo.Save(ctx, testRecord("", base.Add(time.Duration(i)*time.Second))))
	}

	records, err := repo.FindRecent(ctx, outbound.RecentQuery{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = repo.FindRecent(ctx, outbound.RecentQuery{})
	require.NoError(t, err)
	assert.Len(t, records, defaultRecentLimit)
}

func TestMealPlanRepository_FindRecentEmpty(t *testing.T) {
	repo := NewMealPlanRepository(setupTestDB(t))

	records, err := repo.FindRecent(context.Background(), outbound.RecentQuery{Limit: 1})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMealPlanRepository_SaveAfterClose(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMealPlanRepository(db)
	require.NoError(t, Close(db))

	err := repo.Save(context.Background(), testRecord("", time.Now()))
	assert.True(t, apperrors.Is(err, apperrors.CodeDatabaseError))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), DatabaseConfig{Driver: "mysql"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestJSONColumn_ScanNil(t *testing.T) {
	col := JSONColumn[mealplan.Preferences]{Data: mealplan.Preferences{MealType: "dinner"}}
	require.NoError(t, col.Scan(nil))
	assert.Equal(t, mealplan.Preferences{}, col.Data)

	assert.Error(t, col.Scan(42))
}
