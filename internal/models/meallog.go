package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meal types for logged meals.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// FoodEntry is a single analyzed food inside a meal log.
type FoodEntry struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Quantity string  `json:"quantity"`
}

type FoodEntryList []FoodEntry

func (l FoodEntryList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *FoodEntryList) Scan(value interface{}) error {
	if value == nil {
		*l = FoodEntryList{}
		return nil
	}
	return scanJSONB(value, l)
}

// MealLog is one logged meal with its AI (or fallback) nutrition breakdown.
type MealLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Foods         FoodEntryList  `gorm:"type:jsonb;not null;default:'[]'" json:"foods"`
	TotalCalories float64        `gorm:"not null" json:"total_calories"`
	MealType      string         `gorm:"size:20;not null" json:"meal_type"`
	Date          time.Time      `gorm:"not null;index" json:"date"`
	ImageURL      string         `gorm:"size:512" json:"image_url,omitempty"`
	Analysis      string         `gorm:"type:text" json:"analysis,omitempty"`
}

func (m *MealLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
