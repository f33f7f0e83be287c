package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutritrack/backend/internal/models"
	"github.com/nutritrack/backend/internal/service"
)

func TestLoginAndAuthRequired(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Protected routes refuse missing and malformed tokens.
	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/profile", token, testProfilePayload())
	require.Equal(t, http.StatusOK, w.Code)

	var saved models.NutritionProfile
	decodeBody(t, w, &saved)
	assert.Greater(t, saved.DailyCalorieGoal, 0.0)
	assert.Greater(t, saved.Macros.Protein, 0.0)

	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.NutritionProfile
	decodeBody(t, w, &got)
	assert.Equal(t, saved.ID, got.ID)
	assert.InDelta(t, saved.DailyCalorieGoal, got.DailyCalorieGoal, 0.001)
}

func TestProfileValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	payload := testProfilePayload()
	payload["age"] = 0
	w := doJSON(t, router, http.MethodPut, "/api/v1/profile", token, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipesEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/v1/recipes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Recipes []models.Recipe `json:"recipes"`
	}
	decodeBody(t, w, &listResp)
	require.NotEmpty(t, listResp.Recipes)

	recipeID := listResp.Recipes[0].ID
	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/"+recipeID.String(), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/search?q=eggs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &listResp)
	assert.NotEmpty(t, listResp.Recipes)
}

func TestGenerateMealPlanRequiresProfile(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/mealplans/generate", token, gin.H{"days": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateMealPlan(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodPut, "/api/v1/profile", token, testProfilePayload())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/mealplans/generate", token, gin.H{"days": 3})
	require.Equal(t, http.StatusOK, w.Code)

	var plan models.MealPlan
	decodeBody(t, w, &plan)
	require.Len(t, plan.Days, 3)
	assert.NotEmpty(t, plan.ShoppingList)

	var sum float64
	for _, day := range plan.Days {
		sum += day.TotalCalories
	}
	assert.InDelta(t, sum, plan.TotalCalories, 0.001)
}

func TestChallengeFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/v1/challenges", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Challenges []models.Challenge `json:"challenges"`
	}
	decodeBody(t, w, &listResp)
	require.NotEmpty(t, listResp.Challenges)

	challenge := listResp.Challenges[0]
	base := fmt.Sprintf("/api/v1/challenges/%s", challenge.ID)

	w = doJSON(t, router, http.MethodPost, base+"/join", token, gin.H{"username": "alice"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, base+"/join", token, gin.H{"username": "alice"})
	assert.Equal(t, http.StatusConflict, w.Code)

	goalID := challenge.Goals[0].ID
	w = doJSON(t, router, http.MethodPost, base+"/progress", token, gin.H{
		"goal_id": goalID,
		"value":   challenge.Goals[0].Target + 1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var progress models.ChallengeProgress
	decodeBody(t, w, &progress)
	assert.True(t, progress.IsCompleted)
	assert.Greater(t, progress.Points, 0)

	// Zero is a legitimate progress value, not a validation failure.
	w = doJSON(t, router, http.MethodPost, base+"/progress", token, gin.H{
		"goal_id": goalID,
		"value":   0,
	})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &progress)
	assert.False(t, progress.IsCompleted)
	assert.Equal(t, 0, progress.Points)

	w = doJSON(t, router, http.MethodGet, base+"/leaderboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/challenges/stats", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateChallenge(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/challenges", token, gin.H{
		"title":    "My Challenge",
		"type":     "exercise",
		"duration": 5,
		"goals": []gin.H{
			{"id": "g1", "type": "steps", "target": 5000, "unit": "steps", "is_required": true},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Challenge
	decodeBody(t, w, &created)
	assert.Equal(t, "My Challenge", created.Title)
	assert.NotEmpty(t, created.EndDate)

	// Missing goals is a validation error.
	w = doJSON(t, router, http.MethodPost, "/api/v1/challenges", token, gin.H{
		"title": "Bad", "type": "exercise", "duration": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMealLoggingAndDashboard(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodPut, "/api/v1/profile", token, testProfilePayload())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/meals", token, gin.H{
		"meal_type": "lunch",
		"foods": []gin.H{
			{"name": "rice", "calories": 200},
			{"name": "chicken", "calories": 300},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var meal models.MealLog
	decodeBody(t, w, &meal)
	assert.Equal(t, 500.0, meal.TotalCalories)

	// No AI configured: a described meal still logs as an estimate.
	w = doJSON(t, router, http.MethodPost, "/api/v1/meals", token, gin.H{
		"description": "a bowl of soup",
		"meal_type":   "dinner",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/meals", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Meals []models.MealLog `json:"meals"`
	}
	decodeBody(t, w, &listResp)
	assert.Len(t, listResp.Meals, 2)

	w = doJSON(t, router, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash dashboardResponse
	decodeBody(t, w, &dash)
	assert.Equal(t, 2, dash.MealsLogged)
	assert.Greater(t, dash.CalorieGoal, 0.0)
	assert.InDelta(t, dash.CalorieGoal-dash.CaloriesConsumed, dash.CaloriesRemaining, 0.001)
}

func TestChatFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/chat", token, gin.H{"message": "how much protein do I need"})
	require.Equal(t, http.StatusOK, w.Code)
	var reply models.ChatMessage
	decodeBody(t, w, &reply)
	assert.Equal(t, "assistant", reply.Role)
	assert.NotEmpty(t, reply.Content)

	w = doJSON(t, router, http.MethodGet, "/api/v1/chat", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	decodeBody(t, w, &history)
	assert.Len(t, history.Messages, 2)

	// Legacy alias answers the same conversation.
	w = doJSON(t, router, http.MethodPost, "/api/v1/coach", token, gin.H{"message": "hello"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/coach/recommendations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recsResp struct {
		Recommendations []service.Recommendation `json:"recommendations"`
	}
	decodeBody(t, w, &recsResp)
	assert.NotEmpty(t, recsResp.Recommendations)
}

func TestFitnessStepsDegradesGracefully(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAs(t, router, "alice@example.com")

	// No provider configured: empty result, not an error.
	w := doJSON(t, router, http.MethodGet, "/api/v1/fitness/steps", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Days []struct{} `json:"days"`
	}
	decodeBody(t, w, &resp)
	assert.Empty(t, resp.Days)
}
