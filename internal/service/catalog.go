package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/nutritrack/backend/internal/models"
	"gorm.io/gorm"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeFilters are independent AND conditions applied to search results.
// Zero values disable a filter.
type RecipeFilters struct {
	Diet         string  `form:"diet" json:"diet"`
	MaxReadyTime int     `form:"max_ready_time" json:"max_ready_time"`
	DishType     string  `form:"dish_type" json:"dish_type"`
	MaxCalories  float64 `form:"max_calories" json:"max_calories"`
	MinProtein   float64 `form:"min_protein" json:"min_protein"`
}

// CatalogService serves the recipe catalog: a seeded static table, fronted
// by an optional generative recommender for free-text search.
type CatalogService struct {
	db *gorm.DB
	ai AIClient // nil disables the external path
}

var _ ICatalogService = (*CatalogService)(nil)

func NewCatalogService(db *gorm.DB, ai AIClient) *CatalogService {
	return &CatalogService{db: db, ai: ai}
}

// GetRecipe retrieves a recipe by ID.
func (s *CatalogService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns the whole catalog.
func (s *CatalogService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Search matches recipes whose title, summary or any tag contains the query
// (case-insensitive substring) and applies the filters as AND conditions.
// When an AI client is configured the generative recommender is tried first;
// its results are converted to the Recipe shape and the numeric filters are
// still applied afterward. Any external failure falls back to the local
// catalog.
func (s *CatalogService) Search(ctx context.Context, query string, filters RecipeFilters) ([]models.Recipe, error) {
	if s.ai != nil && query != "" {
		var dietaryPrefs []string
		if filters.Diet != "" {
			dietaryPrefs = []string{filters.Diet}
		}
		aiRecipes, err := s.ai.RecommendRecipes(ctx, query, dietaryPrefs)
		if err == nil && len(aiRecipes) > 0 {
			converted := make([]models.Recipe, 0, len(aiRecipes))
			for _, r := range aiRecipes {
				converted = append(converted, convertAIRecipe(r, dietaryPrefs, filters.DishType))
			}
			return applyNumericFilters(converted, filters), nil
		}
		if err != nil {
			log.Printf("[CatalogService] recipe recommendation failed, using local catalog: %v", err)
		}
	}

	recipes, err := s.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var results []models.Recipe
	for _, r := range recipes {
		if q != "" && !matchesQuery(&r, q) {
			continue
		}
		if filters.Diet != "" && !r.Diets.Contains(filters.Diet) {
			continue
		}
		if filters.DishType != "" && !r.DishTypes.Contains(filters.DishType) {
			continue
		}
		results = append(results, r)
	}
	return applyNumericFilters(results, filters), nil
}

func matchesQuery(r *models.Recipe, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Summary), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// applyNumericFilters applies the time/calorie/protein bounds. These are
// applied to external results too, after conversion.
func applyNumericFilters(recipes []models.Recipe, filters RecipeFilters) []models.Recipe {
	var out []models.Recipe
	for _, r := range recipes {
		if filters.MaxReadyTime > 0 && r.ReadyInMinutes > filters.MaxReadyTime {
			continue
		}
		if filters.MaxCalories > 0 && r.Nutrition.Calories > filters.MaxCalories {
			continue
		}
		if filters.MinProtein > 0 && r.Nutrition.Protein < filters.MinProtein {
			continue
		}
		out = append(out, r)
	}
	return out
}

// convertAIRecipe maps an AI recommendation into the catalog Recipe shape.
// Ingredient strings become single-unit entries under the General aisle.
func convertAIRecipe(r AIRecipe, diets []string, dishType string) models.Recipe {
	ingredients := make(models.IngredientList, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, models.Ingredient{
			Name:     ing,
			Amount:   1,
			Unit:     "piece",
			Original: ing,
			Aisle:    "General",
		})
	}

	if dishType == "" {
		dishType = "main course"
	}

	return models.Recipe{
		ID:             uuid.New(),
		Title:          r.Name,
		Summary:        r.Description,
		ReadyInMinutes: r.PrepTime + r.CookTime,
		Servings:       r.Servings,
		Nutrition: models.Nutrition{
			Calories: r.Calories,
			Protein:  r.Nutrition.Protein,
			Carbs:    r.Nutrition.Carbs,
			Fat:      r.Nutrition.Fat,
			Fiber:    r.Nutrition.Fiber,
		},
		Ingredients:  ingredients,
		Instructions: models.JSONBStringArray(r.Instructions),
		Diets:        models.JSONBStringArray(diets),
		DishTypes:    models.JSONBStringArray{dishType},
		Tags:         models.JSONBStringArray(r.Tags),
	}
}
