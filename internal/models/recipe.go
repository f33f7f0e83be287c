package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dish type tags used for meal-plan slot assignment.
const (
	DishBreakfast = "breakfast"
	DishLunch     = "lunch"
	DishDinner    = "dinner"
	DishSnack     = "snack"
)

// Nutrition holds per-serving nutrition facts in grams (calories in kcal).
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

func (n Nutrition) Value() (driver.Value, error) {
	return json.Marshal(n)
}

func (n *Nutrition) Scan(value interface{}) error {
	return scanJSONB(value, n)
}

// Ingredient is a single recipe ingredient with its shopping aisle.
type Ingredient struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Original string  `json:"original,omitempty"`
	Aisle    string  `json:"aisle"`
}

// IngredientList is stored as a JSONB array.
type IngredientList []Ingredient

func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}
	return scanJSONB(value, l)
}

// Recipe is immutable once fetched or generated within a session. Rows come
// either from the seeded catalog or from converted AI recommendations.
type Recipe struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
	Title          string           `gorm:"size:255;not null" json:"title"`
	Summary        string           `gorm:"type:text" json:"summary"`
	ImageURL       string           `gorm:"size:255" json:"image_url,omitempty"`
	ReadyInMinutes int              `json:"ready_in_minutes"`
	Servings       int              `json:"servings"`
	Nutrition      Nutrition        `gorm:"type:jsonb" json:"nutrition"`
	Ingredients    IngredientList   `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions   JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	Diets          JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"diets"`
	DishTypes      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"dish_types"`
	Tags           JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasDishType reports whether the recipe carries any of the given dish types.
func (r *Recipe) HasDishType(types ...string) bool {
	for _, t := range types {
		if r.DishTypes.Contains(t) {
			return true
		}
	}
	return false
}
