package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutritrack/backend/internal/models"
	"gorm.io/gorm"
)

var ErrEmptyMealDescription = errors.New("meal description must not be empty")

// Fallback estimate used when the analysis service is unavailable. Rough on
// purpose: a logged meal with an approximate count beats an unlogged one.
const fallbackMealCalories = 400

// MealLogService records meals. Free-text descriptions are broken down by
// the generative service when available.
type MealLogService struct {
	db  *gorm.DB
	ai  AIClient
	now func() time.Time
}

var _ IMealLogService = (*MealLogService)(nil)

func NewMealLogService(db *gorm.DB, ai AIClient, now func() time.Time) *MealLogService {
	if now == nil {
		now = time.Now
	}
	return &MealLogService{db: db, ai: ai, now: now}
}

// LogMeal stores an already-itemized meal. TotalCalories is recomputed from
// the entries so client-supplied totals can never drift from the foods.
func (s *MealLogService) LogMeal(ctx context.Context, meal *models.MealLog) (*models.MealLog, error) {
	if meal.MealType == "" {
		meal.MealType = models.MealSnack
	}
	if meal.Date.IsZero() {
		meal.Date = s.now()
	}
	meal.TotalCalories = 0
	for _, f := range meal.Foods {
		meal.TotalCalories += f.Calories
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

// AnalyzeAndLog turns a free-text description into an itemized meal log.
// When the analysis service is down the meal is still logged, as a single
// estimated entry carrying the raw description.
func (s *MealLogService) AnalyzeAndLog(ctx context.Context, userID uuid.UUID, description, mealType string) (*models.MealLog, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyMealDescription
	}

	meal := &models.MealLog{
		UserID:   userID,
		MealType: mealType,
		Date:     s.now(),
	}

	if s.ai != nil {
		if analysis, err := s.ai.AnalyzeFood(ctx, description); err == nil {
			for _, f := range analysis.Foods {
				meal.Foods = append(meal.Foods, models.FoodEntry{
					Name:     f.Name,
					Calories: f.Calories,
					Protein:  f.Protein,
					Carbs:    f.Carbs,
					Fat:      f.Fat,
					Fiber:    f.Fiber,
					Sugar:    f.Sugar,
					Quantity: f.Quantity,
				})
			}
			meal.Analysis = analysis.Analysis
		} else {
			log.Printf("[MealLogService] food analysis failed, logging estimate: %v", err)
		}
	}

	if len(meal.Foods) == 0 {
		meal.Foods = models.FoodEntryList{{
			Name:     description,
			Calories: fallbackMealCalories,
			Quantity: "1 serving",
		}}
		meal.Analysis = "Estimated entry; nutrition analysis was unavailable."
	}

	return s.LogMeal(ctx, meal)
}

// ListMeals returns a user's meal logs, newest first.
func (s *MealLogService) ListMeals(ctx context.Context, userID uuid.UUID) ([]models.MealLog, error) {
	var logs []models.MealLog
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("date DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// MealsForDate returns the meals logged on one calendar day (YYYY-MM-DD).
func (s *MealLogService) MealsForDate(ctx context.Context, userID uuid.UUID, date string) ([]models.MealLog, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, err
	}
	var logs []models.MealLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, day, day.AddDate(0, 0, 1)).
		Order("date ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
