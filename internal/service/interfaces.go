package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutritrack/backend/internal/models"
)

// AIClient is the outbound generative-service surface. Implementations must
// return an error for unreachable services and for responses without an
// extractable JSON payload; callers always degrade to their local fallback.
type AIClient interface {
	AnalyzeFood(ctx context.Context, description string) (*FoodAnalysis, error)
	GenerateMealPlan(ctx context.Context, prefs MealPlanPreferences) (*AIMealPlan, error)
	RecommendRecipes(ctx context.Context, query string, dietaryPrefs []string) ([]AIRecipe, error)
	CoachResponse(ctx context.Context, message, profileContext string) (string, error)
}

// IProfileService defines the nutrition-profile operations used by handlers.
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.NutritionProfile, error)
	SaveProfile(ctx context.Context, profile *models.NutritionProfile) (*models.NutritionProfile, error)
}

// ICatalogService defines recipe catalog operations.
type ICatalogService interface {
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	Search(ctx context.Context, query string, filters RecipeFilters) ([]models.Recipe, error)
}

// IPlannerService defines meal-plan operations.
type IPlannerService interface {
	GeneratePlan(ctx context.Context, profile *models.NutritionProfile, days int, prefs PlanPreferences) (*models.MealPlan, error)
	GetDraft(ctx context.Context, id, userID uuid.UUID) (*models.MealPlan, error)
	SavePlan(ctx context.Context, id, userID uuid.UUID) (*models.MealPlan, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error)
}

// IChallengeService defines challenge operations.
type IChallengeService interface {
	CreateChallenge(ctx context.Context, challenge *models.Challenge) (*models.Challenge, error)
	ListChallenges(ctx context.Context, filters ChallengeFilters) ([]models.Challenge, error)
	GetChallenge(ctx context.Context, id uuid.UUID) (*models.Challenge, error)
	Join(ctx context.Context, challengeID, userID uuid.UUID, username string) error
	UpdateProgress(ctx context.Context, challengeID, userID uuid.UUID, goalID string, value float64) (*models.ChallengeProgress, error)
	Leaderboard(ctx context.Context, challengeID uuid.UUID) (*Leaderboard, error)
	UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
}

// ICoachService defines the conversational coach.
type ICoachService interface {
	Respond(ctx context.Context, userID uuid.UUID, message string) (*models.ChatMessage, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error)
	DailyRecommendations(ctx context.Context, userID uuid.UUID) ([]Recommendation, error)
}

// IMealLogService defines meal logging.
type IMealLogService interface {
	LogMeal(ctx context.Context, log *models.MealLog) (*models.MealLog, error)
	AnalyzeAndLog(ctx context.Context, userID uuid.UUID, description, mealType string) (*models.MealLog, error)
	ListMeals(ctx context.Context, userID uuid.UUID) ([]models.MealLog, error)
	MealsForDate(ctx context.Context, userID uuid.UUID, date string) ([]models.MealLog, error)
}
