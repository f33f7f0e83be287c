package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutritrack/backend/internal/models"
)

func TestRespondUsesAIWhenAvailable(t *testing.T) {
	db := newTestDB(t)
	ai := &stubAI{
		coachResponse: func(ctx context.Context, message, profileContext string) (string, error) {
			return "Personalized advice.", nil
		},
	}
	svc := NewCoachService(db, ai, newTestRand(), nil)

	reply, err := svc.Respond(context.Background(), uuid.New(), "How do I lose weight?")
	require.NoError(t, err)
	assert.Equal(t, "Personalized advice.", reply.Content)
	assert.Equal(t, "assistant", reply.Role)
}

func TestRespondIncludesProfileContext(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	profile := testProfile()
	profile.UserID = userID
	ApplyGoals(profile)
	require.NoError(t, db.Create(profile).Error)

	var seenContext string
	ai := &stubAI{
		coachResponse: func(ctx context.Context, message, profileContext string) (string, error) {
			seenContext = profileContext
			return "ok", nil
		},
	}
	svc := NewCoachService(db, ai, newTestRand(), nil)

	_, err := svc.Respond(context.Background(), userID, "help")
	require.NoError(t, err)
	assert.Contains(t, seenContext, "30 years old")
	assert.Contains(t, seenContext, "maintain_weight")
}

func TestRespondFallsBackToRulePool(t *testing.T) {
	tests := []struct {
		name    string
		message string
		intent  string
	}{
		{"weight loss", "I want to lose weight fast", "weight_loss"},
		{"exercise", "what workout should I do", "exercise"},
		{"nutrition", "how much protein do I need", "nutrition"},
		{"motivation", "I feel like I should give up", "motivation"},
		{"meal planning", "help me with meal prep", "meal_planning"},
		{"general", "hello there", "general"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			svc := NewCoachService(db, nil, newTestRand(), nil)

			reply, err := svc.Respond(context.Background(), uuid.New(), tt.message)
			require.NoError(t, err)

			// The answer must come from the matched intent's pool; which one
			// is up to the injected rand.
			assert.Contains(t, intentReplies[tt.intent], reply.Content)
		})
	}
}

func TestRespondProgressReportsCalorieBalance(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	profile := testProfile()
	profile.UserID = userID
	profile.DailyCalorieGoal = 2000
	profile.Macros = models.MacroTargets{Protein: 150, Carbs: 200, Fat: 60}
	require.NoError(t, db.Create(profile).Error)

	now := fixedClock("2026-08-30")
	svc := NewCoachService(db, nil, newTestRand(), now)

	require.NoError(t, db.Create(&models.MealLog{
		UserID:        userID,
		Foods:         models.FoodEntryList{{Name: "lunch", Calories: 700}},
		TotalCalories: 700,
		MealType:      models.MealLunch,
		Date:          now(),
	}).Error)

	reply, err := svc.Respond(context.Background(), userID, "how is my progress today?")
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "700")
	assert.Contains(t, reply.Content, "1300")
}

func TestRespondPersistsBothSides(t *testing.T) {
	db := newTestDB(t)
	svc := NewCoachService(db, nil, newTestRand(), nil)
	userID := uuid.New()

	_, err := svc.Respond(context.Background(), userID, "hello")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestHistoryScopedToUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewCoachService(db, nil, newTestRand(), nil)

	alice, bob := uuid.New(), uuid.New()
	_, err := svc.Respond(context.Background(), alice, "hi")
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), bob, "hey")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), alice, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, m := range history {
		assert.Equal(t, alice, m.UserID)
	}
}

func TestDailyRecommendationsWithoutProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewCoachService(db, nil, newTestRand(), nil)

	recs, err := svc.DailyRecommendations(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "goal", recs[0].Category)
	assert.Contains(t, recs[0].Message, "profile")
}

func TestDailyRecommendationsCoverEveryCategory(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	profile := testProfile()
	profile.UserID = userID
	profile.DailyCalorieGoal = 2000
	profile.Goal = models.GoalBuildMuscle
	profile.Macros = models.MacroTargets{Protein: 150, Carbs: 200, Fat: 60}
	require.NoError(t, db.Create(profile).Error)

	now := fixedClock("2026-08-30")
	svc := NewCoachService(db, nil, newTestRand(), now)

	require.NoError(t, db.Create(&models.MealLog{
		UserID:        userID,
		Foods:         models.FoodEntryList{{Name: "lunch", Calories: 700}},
		TotalCalories: 700,
		MealType:      models.MealLunch,
		Date:          now(),
	}).Error)

	recs, err := svc.DailyRecommendations(context.Background(), userID)
	require.NoError(t, err)

	byCategory := make(map[string]string)
	for _, r := range recs {
		byCategory[r.Category] = r.Message
	}
	require.Len(t, byCategory, 4)
	// 1300 kcal left out of 2000 is more than 30%, so the reminder fires.
	assert.Contains(t, byCategory["calories"], "1300")
	assert.Contains(t, byCategory["goal"], "150")
	assert.Contains(t, byCategory["hydration"], "liters")
	assert.Contains(t, byCategory["consistency"], "1 of your usual 3")
}

func TestDailyRecommendationsOverGoal(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	profile := testProfile()
	profile.UserID = userID
	profile.DailyCalorieGoal = 1500
	require.NoError(t, db.Create(profile).Error)

	now := fixedClock("2026-08-30")
	svc := NewCoachService(db, nil, newTestRand(), now)

	require.NoError(t, db.Create(&models.MealLog{
		UserID:        userID,
		Foods:         models.FoodEntryList{{Name: "feast", Calories: 1800}},
		TotalCalories: 1800,
		MealType:      models.MealDinner,
		Date:          now(),
	}).Error)

	recs, err := svc.DailyRecommendations(context.Background(), userID)
	require.NoError(t, err)
	var calorieRec string
	for _, r := range recs {
		if r.Category == "calories" {
			calorieRec = r.Message
		}
	}
	assert.Contains(t, calorieRec, "300 kcal over")
}

func TestRespondProgressWithoutProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewCoachService(db, nil, newTestRand(), nil)

	reply, err := svc.Respond(context.Background(), uuid.New(), "what did I do today")
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "nutrition profile")
}
