package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlanDay holds at most one recipe per main slot plus any snacks.
// TotalCalories and Macros are always the sum of the assigned recipes'
// nutrition fields; empty slots contribute zero.
type MealPlanDay struct {
	Date          string       `json:"date"`
	Breakfast     *Recipe      `json:"breakfast,omitempty"`
	Lunch         *Recipe      `json:"lunch,omitempty"`
	Dinner        *Recipe      `json:"dinner,omitempty"`
	Snacks        []Recipe     `json:"snacks,omitempty"`
	TotalCalories float64      `json:"total_calories"`
	Macros        MacroTargets `json:"macros"`
}

// Recipes returns every recipe assigned to the day, snacks included.
func (d *MealPlanDay) Recipes() []*Recipe {
	var out []*Recipe
	for _, r := range []*Recipe{d.Breakfast, d.Lunch, d.Dinner} {
		if r != nil {
			out = append(out, r)
		}
	}
	for i := range d.Snacks {
		out = append(out, &d.Snacks[i])
	}
	return out
}

type MealPlanDayList []MealPlanDay

func (l MealPlanDayList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *MealPlanDayList) Scan(value interface{}) error {
	if value == nil {
		*l = MealPlanDayList{}
		return nil
	}
	return scanJSONB(value, l)
}

// ShoppingListItem aggregates one distinct ingredient across the whole plan.
// The key is the lowercase ingredient name; amounts are summed under
// whichever unit was seen first, with no unit conversion.
type ShoppingListItem struct {
	Name      string      `json:"name"`
	Amount    float64     `json:"amount"`
	Unit      string      `json:"unit"`
	Aisle     string      `json:"aisle"`
	IsChecked bool        `json:"is_checked"`
	RecipeIDs []uuid.UUID `json:"recipe_ids"`
}

type ShoppingList []ShoppingListItem

func (l ShoppingList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *ShoppingList) Scan(value interface{}) error {
	if value == nil {
		*l = ShoppingList{}
		return nil
	}
	return scanJSONB(value, l)
}

// MealPlan is created by the planner, draft-cached until explicitly saved,
// and superseded (not mutated) by regeneration.
type MealPlan struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
	StartDate     string          `gorm:"size:10;not null" json:"start_date"`
	EndDate       string          `gorm:"size:10;not null" json:"end_date"`
	Days          MealPlanDayList `gorm:"type:jsonb;not null;default:'[]'" json:"days"`
	TotalCalories float64         `json:"total_calories"`
	ShoppingList  ShoppingList    `gorm:"type:jsonb;not null;default:'[]'" json:"shopping_list"`
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
