package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/nutritrack/backend/internal/models"
	"gorm.io/gorm"
)

// SeedChallenges inserts the starter community challenges when the table is
// empty. Safe to call on every startup.
func SeedChallenges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Challenge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(starterChallenges(time.Now())).Error
}

func starterChallenges(now time.Time) []models.Challenge {
	start := now.Format("2006-01-02")
	return []models.Challenge{
		{
			ID:          uuid.New(),
			Title:       "7-Day Hydration Challenge",
			Description: "Drink at least 2 liters of water every day for a week.",
			Type:        models.ChallengeHydration,
			Duration:    7,
			StartDate:   start,
			EndDate:     now.AddDate(0, 0, 6).Format("2006-01-02"),
			Goals: models.ChallengeGoalList{
				{ID: "water-2l", Type: "water", Target: 2000, Unit: "ml", Description: "Drink 2L of water", IsRequired: true},
			},
			Rewards: models.ChallengeRewardList{
				{ID: "hydration-badge", Type: "badge", Name: "Hydration Hero", Description: "Completed the 7-day hydration challenge", Requirement: "Complete all 7 days"},
			},
			Rules:      models.JSONBStringArray{"Log your water intake once per day", "Only plain water counts"},
			Difficulty: models.DifficultyBeginner,
			CreatedBy:  "system",
		},
		{
			ID:          uuid.New(),
			Title:       "10K Steps Challenge",
			Description: "Walk 10,000 steps a day for two weeks.",
			Type:        models.ChallengeExercise,
			Duration:    14,
			StartDate:   start,
			EndDate:     now.AddDate(0, 0, 13).Format("2006-01-02"),
			Goals: models.ChallengeGoalList{
				{ID: "steps-10k", Type: "steps", Target: 10000, Unit: "steps", Description: "Walk 10,000 steps", IsRequired: true},
			},
			Rewards: models.ChallengeRewardList{
				{ID: "steps-points", Type: "points", Name: "Step Master", Description: "200 bonus points", Requirement: "Complete 12 of 14 days", Value: 200},
			},
			Rules:      models.JSONBStringArray{"Sync your step count daily"},
			Difficulty: models.DifficultyIntermediate,
			CreatedBy:  "system",
		},
		{
			ID:          uuid.New(),
			Title:       "30-Day Clean Eating",
			Description: "Hit your calorie goal and log every meal for thirty days.",
			Type:        models.ChallengeNutrition,
			Duration:    30,
			StartDate:   start,
			EndDate:     now.AddDate(0, 0, 29).Format("2006-01-02"),
			Goals: models.ChallengeGoalList{
				{ID: "calories-goal", Type: "calories", Target: 1, Unit: "days", Description: "Stay within your calorie goal", IsRequired: true},
				{ID: "meals-logged", Type: "custom", Target: 3, Unit: "meals", Description: "Log at least 3 meals", IsRequired: false},
			},
			Rewards: models.ChallengeRewardList{
				{ID: "clean-badge", Type: "badge", Name: "Clean Eater", Description: "Completed the 30-day clean eating challenge", Requirement: "Complete all required goals"},
			},
			Rules:      models.JSONBStringArray{"Log every meal", "Calorie goal comes from your nutrition profile"},
			Difficulty: models.DifficultyAdvanced,
			CreatedBy:  "system",
		},
	}
}
