package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutritrack/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrInvalidCalorieGoal = errors.New("profile must have a positive daily calorie goal")
	ErrInvalidDayCount    = errors.New("day count must be at least 1")
	ErrPlanNotFound       = errors.New("meal plan not found")
)

// Slot calorie targets as fractions of the daily goal.
const (
	breakfastShare = 0.25
	lunchShare     = 0.35
	dinnerShare    = 0.35
	snackShare     = 0.05
)

const planDraftTTL = 24 * time.Hour

// PlanPreferences narrow the candidate recipes for plan generation.
type PlanPreferences struct {
	ExcludeIngredients []string `json:"exclude_ingredients,omitempty"`
	IncludeIngredients []string `json:"include_ingredients,omitempty"`
	Diet               string   `json:"diet,omitempty"`
	MaxReadyTime       int      `json:"max_ready_time,omitempty"`
}

// PlannerService generates multi-day meal plans. The external recommender is
// tried first; the seeded catalog is the deterministic fallback. Generated
// plans live as redis drafts until explicitly saved.
type PlannerService struct {
	db    *gorm.DB
	redis *redis.Client
	ai    AIClient
	rng   *rand.Rand
}

var _ IPlannerService = (*PlannerService)(nil)

// NewPlannerService creates a PlannerService. The rand source is injected so
// the closest-of-three selection stays seedable in tests.
func NewPlannerService(db *gorm.DB, redisClient *redis.Client, ai AIClient, rng *rand.Rand) *PlannerService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PlannerService{db: db, redis: redisClient, ai: ai, rng: rng}
}

// GeneratePlan builds a meal plan for the given profile and day count.
func (s *PlannerService) GeneratePlan(ctx context.Context, profile *models.NutritionProfile, days int, prefs PlanPreferences) (*models.MealPlan, error) {
	if profile.DailyCalorieGoal <= 0 {
		return nil, ErrInvalidCalorieGoal
	}
	if days < 1 {
		return nil, ErrInvalidDayCount
	}

	start := time.Now()
	plan := s.generateFromAI(ctx, profile, days, prefs, start)
	if plan == nil {
		var err error
		plan, err = s.generateLocal(ctx, profile, days, prefs, start)
		if err != nil {
			return nil, err
		}
	}

	plan.ID = uuid.New()
	plan.UserID = profile.UserID
	recomputeTotals(plan)
	plan.ShoppingList = BuildShoppingList(plan)

	if err := s.saveDraft(ctx, plan); err != nil {
		log.Printf("[PlannerService] failed to cache plan draft: %v", err)
	}
	return plan, nil
}

// generateFromAI returns nil when the external recommender is unavailable or
// returns no meals; the caller then takes the local path. This path does not
// match calorie targets: the recommendation's values are trusted as-is.
func (s *PlannerService) generateFromAI(ctx context.Context, profile *models.NutritionProfile, days int, prefs PlanPreferences, start time.Time) *models.MealPlan {
	if s.ai == nil {
		return nil
	}

	allergies := append([]string{}, profile.Allergies...)
	allergies = append(allergies, prefs.ExcludeIngredients...)

	aiPlan, err := s.ai.GenerateMealPlan(ctx, MealPlanPreferences{
		DietType:  prefs.Diet,
		Calories:  profile.DailyCalorieGoal,
		Meals:     3,
		Allergies: allergies,
		Includes:  prefs.IncludeIngredients,
	})
	if err != nil || aiPlan == nil || len(aiPlan.Meals) == 0 {
		if err != nil {
			log.Printf("[PlannerService] meal plan generation failed, using local catalog: %v", err)
		}
		return nil
	}

	plan := &models.MealPlan{
		StartDate: start.Format("2006-01-02"),
		EndDate:   start.AddDate(0, 0, days-1).Format("2006-01-02"),
	}

	dietType := orDefault(prefs.Diet, "balanced")
	for day := 0; day < days; day++ {
		d := models.MealPlanDay{Date: start.AddDate(0, 0, day).Format("2006-01-02")}
		// Rotate the canonical meal list so consecutive days differ.
		for i := range aiPlan.Meals {
			meal := aiPlan.Meals[(i+day)%len(aiPlan.Meals)]
			recipe := convertAIMeal(meal, dietType)
			switch {
			case meal.Type == models.DishBreakfast && d.Breakfast == nil:
				d.Breakfast = recipe
			case meal.Type == models.DishLunch && d.Lunch == nil:
				d.Lunch = recipe
			case meal.Type == models.DishDinner && d.Dinner == nil:
				d.Dinner = recipe
			default:
				d.Snacks = append(d.Snacks, *recipe)
			}
		}
		plan.Days = append(plan.Days, d)
	}
	return plan
}

// generateLocal is the deterministic fallback over the seeded catalog.
func (s *PlannerService) generateLocal(ctx context.Context, profile *models.NutritionProfile, days int, prefs PlanPreferences, start time.Time) (*models.MealPlan, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Find(&recipes).Error; err != nil {
		return nil, err
	}
	candidates := filterCandidates(recipes, profile, prefs)

	target := profile.DailyCalorieGoal
	plan := &models.MealPlan{
		StartDate: start.Format("2006-01-02"),
		EndDate:   start.AddDate(0, 0, days-1).Format("2006-01-02"),
	}

	for day := 0; day < days; day++ {
		d := models.MealPlanDay{Date: start.AddDate(0, 0, day).Format("2006-01-02")}
		// An unfillable slot stays empty and contributes zero; that is a
		// partial result, not an error.
		d.Breakfast = s.selectBySlot(candidates, models.DishBreakfast, target*breakfastShare)
		d.Lunch = s.selectBySlot(candidates, models.DishLunch, target*lunchShare)
		d.Dinner = s.selectBySlot(candidates, models.DishDinner, target*dinnerShare)
		if snack := s.selectBySlot(candidates, models.DishSnack, target*snackShare); snack != nil {
			d.Snacks = append(d.Snacks, *snack)
		}
		plan.Days = append(plan.Days, d)
	}
	return plan, nil
}

// filterCandidates applies dietary restrictions, allergies and preferences.
// A recipe must carry every restriction tag; allergy and exclusion matches
// are case-insensitive substring checks against ingredient names.
func filterCandidates(recipes []models.Recipe, profile *models.NutritionProfile, prefs PlanPreferences) []models.Recipe {
	var out []models.Recipe
recipeLoop:
	for _, r := range recipes {
		for _, restriction := range profile.DietaryRestrictions {
			if !r.Diets.Contains(restriction) {
				continue recipeLoop
			}
		}
		if prefs.MaxReadyTime > 0 && r.ReadyInMinutes > prefs.MaxReadyTime {
			continue
		}
		for _, ing := range r.Ingredients {
			name := strings.ToLower(ing.Name)
			for _, allergy := range profile.Allergies {
				if strings.Contains(name, strings.ToLower(allergy)) {
					continue recipeLoop
				}
			}
			for _, excluded := range prefs.ExcludeIngredients {
				if strings.Contains(name, strings.ToLower(excluded)) {
					continue recipeLoop
				}
			}
		}
		out = append(out, r)
	}
	return out
}

// selectBySlot picks one candidate tagged with the slot's dish type whose
// calories are among the three closest to the target. The random pick among
// the top three is deliberate: it keeps regenerated plans from always
// serving the single best-fit recipe.
func (s *PlannerService) selectBySlot(recipes []models.Recipe, dishType string, targetCalories float64) *models.Recipe {
	var candidates []models.Recipe
	for _, r := range recipes {
		if r.HasDishType(dishType) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].Nutrition.Calories-targetCalories) <
			math.Abs(candidates[j].Nutrition.Calories-targetCalories)
	})

	top := len(candidates)
	if top > 3 {
		top = 3
	}
	pick := candidates[s.rng.Intn(top)]
	return &pick
}

// recomputeTotals derives day and plan totals strictly from the assigned
// recipes. Totals are never stored independently of their source recipes.
func recomputeTotals(plan *models.MealPlan) {
	plan.TotalCalories = 0
	for i := range plan.Days {
		day := &plan.Days[i]
		day.TotalCalories = 0
		day.Macros = models.MacroTargets{}
		for _, r := range day.Recipes() {
			day.TotalCalories += r.Nutrition.Calories
			day.Macros.Protein += r.Nutrition.Protein
			day.Macros.Carbs += r.Nutrition.Carbs
			day.Macros.Fat += r.Nutrition.Fat
		}
		plan.TotalCalories += day.TotalCalories
	}
}

// BuildShoppingList aggregates every ingredient across every recipe in the
// plan, snacks included. Items are keyed by lowercase ingredient name: the
// first occurrence fixes unit and aisle, later occurrences add their amount
// and append the recipe id. Amounts are summed with no unit conversion even
// when units differ; that matches the historic behavior and is asserted by
// tests, so do not "fix" it here.
func BuildShoppingList(plan *models.MealPlan) models.ShoppingList {
	index := make(map[string]int)
	var items models.ShoppingList

	for di := range plan.Days {
		for _, recipe := range plan.Days[di].Recipes() {
			for _, ing := range recipe.Ingredients {
				key := strings.ToLower(ing.Name)
				if pos, ok := index[key]; ok {
					items[pos].Amount += ing.Amount
					items[pos].RecipeIDs = append(items[pos].RecipeIDs, recipe.ID)
					continue
				}
				index[key] = len(items)
				items = append(items, models.ShoppingListItem{
					Name:      ing.Name,
					Amount:    ing.Amount,
					Unit:      ing.Unit,
					Aisle:     ing.Aisle,
					RecipeIDs: []uuid.UUID{recipe.ID},
				})
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Aisle < items[j].Aisle })
	return items
}

func convertAIMeal(meal AIMeal, dietType string) *models.Recipe {
	ingredients := make(models.IngredientList, 0, len(meal.Ingredients))
	for _, ing := range meal.Ingredients {
		ingredients = append(ingredients, models.Ingredient{
			Name:     ing,
			Amount:   1,
			Unit:     "piece",
			Original: ing,
			Aisle:    "General",
		})
	}

	mealType := meal.Type
	if mealType == "" {
		mealType = models.DishSnack
	}

	return &models.Recipe{
		ID:             uuid.New(),
		Title:          meal.Name,
		Summary:        fmt.Sprintf("%s with balanced nutrition", meal.Name),
		ReadyInMinutes: meal.PrepTime,
		Servings:       1,
		Nutrition: models.Nutrition{
			Calories: meal.Calories,
			Protein:  meal.Nutrition.Protein,
			Carbs:    meal.Nutrition.Carbs,
			Fat:      meal.Nutrition.Fat,
			Fiber:    meal.Nutrition.Fiber,
		},
		Ingredients:  ingredients,
		Instructions: models.JSONBStringArray(meal.Instructions),
		Diets:        models.JSONBStringArray{dietType},
		DishTypes:    models.JSONBStringArray{mealType},
		Tags:         models.JSONBStringArray{mealType, "healthy"},
	}
}

// saveDraft caches a generated plan until the user saves or regenerates it.
func (s *PlannerService) saveDraft(ctx context.Context, plan *models.MealPlan) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan draft: %w", err)
	}
	key := fmt.Sprintf("mealplan:draft:%s", plan.ID)
	if err := s.redis.Set(ctx, key, data, planDraftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save plan draft to Redis: %w", err)
	}
	return nil
}

// GetDraft retrieves a cached plan draft. A draft belonging to another user
// reads as not found.
func (s *PlannerService) GetDraft(ctx context.Context, id, userID uuid.UUID) (*models.MealPlan, error) {
	if s.redis == nil {
		return nil, ErrPlanNotFound
	}
	data, err := s.redis.Get(ctx, fmt.Sprintf("mealplan:draft:%s", id)).Bytes()
	if err != nil {
		return nil, ErrPlanNotFound
	}
	return decodeDraft(data, userID)
}

// decodeDraft unmarshals a cached draft and enforces ownership: a draft
// belonging to another user reads as not found.
func decodeDraft(data []byte, userID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan draft: %w", err)
	}
	if plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return &plan, nil
}

// SavePlan persists a drafted plan. Regeneration supersedes rather than
// mutates saved plans, so this is a plain insert.
func (s *PlannerService) SavePlan(ctx context.Context, id, userID uuid.UUID) (*models.MealPlan, error) {
	plan, err := s.GetDraft(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	if s.redis != nil {
		s.redis.Del(ctx, fmt.Sprintf("mealplan:draft:%s", id))
	}
	return plan, nil
}

// ListPlans returns a user's saved plans, newest first.
func (s *PlannerService) ListPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
