// Package gorm provides GORM model definitions and repositories for stored meal plans
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kondate/mealplanner/internal/domain/mealplan"
)

// MealPlanModel represents the GORM model for a generated meal plan
type MealPlanModel struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`

	MealSuggestions     JSONColumn[mealplan.Plan]        `gorm:"type:json;not null"`
	Preferences         JSONColumn[mealplan.Preferences] `gorm:"type:json"`
	CuisineType         string                           `gorm:"type:varchar(32);index"`
	Theme               string                           `gorm:"type:varchar(32)"`
	Source              string                           `gorm:"type:varchar(20)"`
	TotalSuggestions    int                              `gorm:"default:0"`
	OriginalIngredients string                           `gorm:"type:text"`

	GeneratedAt time.Time `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName pins the table name
func (MealPlanModel) TableName() string {
	return "meal_plans"
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONColumn stores a value as a JSON document
type JSONColumn[T any] struct {
	Data T
}

// Scan implements the sql.Scanner interface
func (j *JSONColumn[T]) Scan(value interface{}) error {
	var zero T
	if value == nil {
		j.Data = zero
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	default:
		return fmt.Errorf("cannot scan %T into JSONColumn", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
