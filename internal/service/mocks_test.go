package service

import (
	"context"
	"errors"
)

var errUnavailable = errors.New("service unavailable")

// stubAI implements AIClient with overridable function fields. Unset fields
// behave like an unreachable service.
type stubAI struct {
	analyzeFood      func(ctx context.Context, description string) (*FoodAnalysis, error)
	generateMealPlan func(ctx context.Context, prefs MealPlanPreferences) (*AIMealPlan, error)
	recommendRecipes func(ctx context.Context, query string, dietaryPrefs []string) ([]AIRecipe, error)
	coachResponse    func(ctx context.Context, message, profileContext string) (string, error)
}

func (s *stubAI) AnalyzeFood(ctx context.Context, description string) (*FoodAnalysis, error) {
	if s.analyzeFood == nil {
		return nil, errUnavailable
	}
	return s.analyzeFood(ctx, description)
}

func (s *stubAI) GenerateMealPlan(ctx context.Context, prefs MealPlanPreferences) (*AIMealPlan, error) {
	if s.generateMealPlan == nil {
		return nil, errUnavailable
	}
	return s.generateMealPlan(ctx, prefs)
}

func (s *stubAI) RecommendRecipes(ctx context.Context, query string, dietaryPrefs []string) ([]AIRecipe, error) {
	if s.recommendRecipes == nil {
		return nil, errUnavailable
	}
	return s.recommendRecipes(ctx, query, dietaryPrefs)
}

func (s *stubAI) CoachResponse(ctx context.Context, message, profileContext string) (string, error) {
	if s.coachResponse == nil {
		return "", errUnavailable
	}
	return s.coachResponse(ctx, message, profileContext)
}
