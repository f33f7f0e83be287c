package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity levels recognized by the TDEE calculation.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

// Goal enum values.
const (
	GoalLoseWeight     = "lose_weight"
	GoalMaintainWeight = "maintain_weight"
	GoalGainWeight     = "gain_weight"
	GoalBuildMuscle    = "build_muscle"
)

// MacroTargets holds daily macronutrient targets in grams.
type MacroTargets struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

func (m MacroTargets) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MacroTargets) Scan(value interface{}) error {
	return scanJSONB(value, m)
}

// NutritionProfile carries a user's biometrics plus the calorie/macro targets
// derived from them. DailyCalorieGoal and Macros are always recomputed
// together from the same snapshot; they are never written independently.
type NutritionProfile struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	DeletedAt           gorm.DeletedAt   `gorm:"index" json:"-"`
	Age                 int              `gorm:"not null" json:"age"`
	Gender              string           `gorm:"size:20;not null" json:"gender"`
	HeightCM            float64          `gorm:"not null" json:"height_cm"`
	WeightKG            float64          `gorm:"not null" json:"weight_kg"`
	ActivityLevel       string           `gorm:"size:20;not null;default:'moderate'" json:"activity_level"`
	Goal                string           `gorm:"size:20;not null;default:'maintain_weight'" json:"goal"`
	TargetWeightKG      float64          `json:"target_weight_kg,omitempty"`
	WeeklyGoalKG        float64          `json:"weekly_goal_kg,omitempty"`
	DietaryRestrictions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_restrictions"`
	Allergies           JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	DailyCalorieGoal    float64          `json:"daily_calorie_goal"`
	Macros              MacroTargets     `gorm:"type:jsonb" json:"macro_targets"`
}

func (p *NutritionProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
