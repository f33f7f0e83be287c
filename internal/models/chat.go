package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat message kinds. MessageMeta carries the variant matching the kind.
const (
	MessageText              = "text"
	MessageNutritionAnalysis = "nutrition_analysis"
	MessageWorkoutSuggestion = "workout_suggestion"
	MessageMealPlan          = "meal_plan"
)

// MessageMeta is a tagged variant: exactly the field matching the message
// type is set, the rest stay nil. This replaces an open-ended blob.
type MessageMeta struct {
	Nutrition *NutritionMeta `json:"nutrition,omitempty"`
	Workout   *WorkoutMeta   `json:"workout,omitempty"`
	MealPlan  *MealPlanMeta  `json:"meal_plan,omitempty"`
}

// NutritionMeta attaches a food breakdown to a chat message.
type NutritionMeta struct {
	Foods         []FoodEntry `json:"foods"`
	TotalCalories float64     `json:"total_calories"`
}

// WorkoutMeta attaches a workout suggestion to a chat message.
type WorkoutMeta struct {
	Activity        string `json:"activity"`
	DurationMinutes int    `json:"duration_minutes"`
}

// MealPlanMeta links a chat message to a generated plan.
type MealPlanMeta struct {
	PlanID uuid.UUID `json:"plan_id"`
}

func (m MessageMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MessageMeta) Scan(value interface{}) error {
	return scanJSONB(value, m)
}

type ChatMessage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Role      string         `gorm:"size:20;not null" json:"role"` // user or assistant
	Content   string         `gorm:"type:text;not null" json:"content"`
	Type      string         `gorm:"size:30;not null;default:'text'" json:"type"`
	Meta      MessageMeta    `gorm:"type:jsonb" json:"meta,omitempty"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
