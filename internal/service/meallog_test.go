package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutritrack/backend/internal/models"
)

func TestLogMealRecomputesTotal(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealLogService(db, nil, nil)

	meal, err := svc.LogMeal(context.Background(), &models.MealLog{
		UserID: uuid.New(),
		Foods: models.FoodEntryList{
			{Name: "rice", Calories: 200},
			{Name: "chicken", Calories: 300},
		},
		TotalCalories: 9999, // client-supplied totals are ignored
		MealType:      models.MealDinner,
	})
	require.NoError(t, err)
	assert.Equal(t, 500.0, meal.TotalCalories)
	assert.False(t, meal.Date.IsZero())
}

func TestAnalyzeAndLogWithAI(t *testing.T) {
	db := newTestDB(t)
	ai := &stubAI{
		analyzeFood: func(ctx context.Context, description string) (*FoodAnalysis, error) {
			analysis := &FoodAnalysis{TotalCalories: 350, Analysis: "Light lunch."}
			analysis.Foods = append(analysis.Foods, struct {
				Name     string  `json:"name"`
				Calories float64 `json:"calories"`
				Protein  float64 `json:"protein"`
				Carbs    float64 `json:"carbs"`
				Fat      float64 `json:"fat"`
				Fiber    float64 `json:"fiber"`
				Sugar    float64 `json:"sugar"`
				Quantity string  `json:"quantity"`
			}{Name: "sandwich", Calories: 350, Protein: 15, Quantity: "1"})
			return analysis, nil
		},
	}
	svc := NewMealLogService(db, ai, nil)

	meal, err := svc.AnalyzeAndLog(context.Background(), uuid.New(), "a turkey sandwich", models.MealLunch)
	require.NoError(t, err)
	require.Len(t, meal.Foods, 1)
	assert.Equal(t, "sandwich", meal.Foods[0].Name)
	assert.Equal(t, 350.0, meal.TotalCalories)
	assert.Equal(t, "Light lunch.", meal.Analysis)
}

func TestAnalyzeAndLogFallsBackToEstimate(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealLogService(db, &stubAI{}, nil)

	meal, err := svc.AnalyzeAndLog(context.Background(), uuid.New(), "mystery stew", models.MealDinner)
	require.NoError(t, err)
	require.Len(t, meal.Foods, 1)
	assert.Equal(t, "mystery stew", meal.Foods[0].Name)
	assert.Equal(t, float64(fallbackMealCalories), meal.TotalCalories)
	assert.NotEmpty(t, meal.Analysis)
}

func TestAnalyzeAndLogRejectsEmptyDescription(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealLogService(db, nil, nil)

	_, err := svc.AnalyzeAndLog(context.Background(), uuid.New(), "   ", models.MealSnack)
	assert.ErrorIs(t, err, ErrEmptyMealDescription)
}

func TestMealsForDate(t *testing.T) {
	db := newTestDB(t)
	now := fixedClock("2026-08-30")
	svc := NewMealLogService(db, nil, now)
	userID := uuid.New()

	_, err := svc.LogMeal(context.Background(), &models.MealLog{
		UserID:   userID,
		Foods:    models.FoodEntryList{{Name: "toast", Calories: 150}},
		MealType: models.MealBreakfast,
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.MealLog{
		UserID:        userID,
		Foods:         models.FoodEntryList{{Name: "old meal", Calories: 500}},
		TotalCalories: 500,
		MealType:      models.MealDinner,
		Date:          fixedClock("2026-08-29")(),
	}).Error)

	meals, err := svc.MealsForDate(context.Background(), userID, "2026-08-30")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "toast", meals[0].Foods[0].Name)

	_, err = svc.MealsForDate(context.Background(), userID, "not-a-date")
	assert.Error(t, err)
}
