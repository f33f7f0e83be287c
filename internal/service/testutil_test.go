package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutritrack/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.NutritionProfile{},
		&models.Recipe{},
		&models.MealPlan{},
		&models.Challenge{},
		&models.MealLog{},
		&models.ChatMessage{},
	))
	return db
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func fixedClock(date string) func() time.Time {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

func testProfile() *models.NutritionProfile {
	return &models.NutritionProfile{
		Age:           30,
		Gender:        "male",
		HeightCM:      180,
		WeightKG:      80,
		ActivityLevel: models.ActivityModerate,
		Goal:          models.GoalMaintainWeight,
	}
}
