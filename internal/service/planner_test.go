package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nutritrack/backend/internal/models"
)

func plannerFixture(name, dishType string, calories float64, diets []string, ingredients ...models.Ingredient) models.Recipe {
	return models.Recipe{
		ID:             uuid.New(),
		Title:          name,
		ReadyInMinutes: 20,
		Servings:       1,
		Nutrition:      models.Nutrition{Calories: calories, Protein: 20, Carbs: 30, Fat: 10},
		Ingredients:    models.IngredientList(ingredients),
		Diets:          models.JSONBStringArray(diets),
		DishTypes:      models.JSONBStringArray{dishType},
	}
}

func seedPlannerCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	recipes := []models.Recipe{
		plannerFixture("Oatmeal", models.DishBreakfast, 350, []string{"vegetarian"},
			models.Ingredient{Name: "rolled oats", Amount: 1, Unit: "cup", Aisle: "Cereal"}),
		plannerFixture("Omelette", models.DishBreakfast, 400, nil,
			models.Ingredient{Name: "eggs", Amount: 3, Unit: "large", Aisle: "Dairy"}),
		plannerFixture("Chicken Salad", models.DishLunch, 550, nil,
			models.Ingredient{Name: "chicken breast", Amount: 200, Unit: "g", Aisle: "Meat"}),
		plannerFixture("Lentil Soup", models.DishLunch, 480, []string{"vegetarian", "vegan"},
			models.Ingredient{Name: "lentils", Amount: 1, Unit: "cup", Aisle: "Canned Goods"}),
		plannerFixture("Salmon Bowl", models.DishDinner, 650, nil,
			models.Ingredient{Name: "salmon fillet", Amount: 180, Unit: "g", Aisle: "Seafood"}),
		plannerFixture("Veggie Stir Fry", models.DishDinner, 520, []string{"vegetarian", "vegan"},
			models.Ingredient{Name: "broccoli", Amount: 200, Unit: "g", Aisle: "Produce"}),
		plannerFixture("Peanut Butter Toast", models.DishSnack, 250, []string{"vegetarian"},
			models.Ingredient{Name: "peanut butter", Amount: 2, Unit: "tbsp", Aisle: "Pantry"}),
		plannerFixture("Greek Yogurt", models.DishSnack, 150, []string{"vegetarian"},
			models.Ingredient{Name: "greek yogurt", Amount: 170, Unit: "g", Aisle: "Dairy"}),
	}
	require.NoError(t, db.Create(&recipes).Error)
}

func plannerProfile() *models.NutritionProfile {
	p := testProfile()
	p.UserID = uuid.New()
	ApplyGoals(p)
	return p
}

func TestGeneratePlanValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlannerService(db, nil, nil, newTestRand())

	p := plannerProfile()
	p.DailyCalorieGoal = 0
	_, err := svc.GeneratePlan(context.Background(), p, 7, PlanPreferences{})
	assert.ErrorIs(t, err, ErrInvalidCalorieGoal)

	p = plannerProfile()
	_, err = svc.GeneratePlan(context.Background(), p, 0, PlanPreferences{})
	assert.ErrorIs(t, err, ErrInvalidDayCount)
}

func TestGeneratePlanLocalTotals(t *testing.T) {
	db := newTestDB(t)
	seedPlannerCatalog(t, db)
	svc := NewPlannerService(db, nil, nil, newTestRand())

	plan, err := svc.GeneratePlan(context.Background(), plannerProfile(), 3, PlanPreferences{})
	require.NoError(t, err)
	require.Len(t, plan.Days, 3)

	var planSum float64
	for _, day := range plan.Days {
		var daySum float64
		for _, r := range day.Recipes() {
			daySum += r.Nutrition.Calories
		}
		assert.InDelta(t, daySum, day.TotalCalories, 0.001)
		assert.NotNil(t, day.Breakfast)
		assert.NotNil(t, day.Lunch)
		assert.NotNil(t, day.Dinner)
		planSum += day.TotalCalories
	}
	assert.InDelta(t, planSum, plan.TotalCalories, 0.001)
	assert.NotEmpty(t, plan.ShoppingList)
}

func TestGeneratePlanRespectsDietaryRestrictions(t *testing.T) {
	db := newTestDB(t)
	seedPlannerCatalog(t, db)
	svc := NewPlannerService(db, nil, nil, newTestRand())

	profile := plannerProfile()
	profile.DietaryRestrictions = models.JSONBStringArray{"vegan"}

	plan, err := svc.GeneratePlan(context.Background(), profile, 2, PlanPreferences{})
	require.NoError(t, err)

	for _, day := range plan.Days {
		// Only Lentil Soup and Veggie Stir Fry carry the vegan tag; no
		// breakfast or snack qualifies, so those slots stay empty.
		assert.Nil(t, day.Breakfast)
		assert.Empty(t, day.Snacks)
		require.NotNil(t, day.Lunch)
		require.NotNil(t, day.Dinner)
		assert.Equal(t, "Lentil Soup", day.Lunch.Title)
		assert.Equal(t, "Veggie Stir Fry", day.Dinner.Title)
	}
}

func TestGeneratePlanExcludesAllergens(t *testing.T) {
	db := newTestDB(t)
	seedPlannerCatalog(t, db)
	svc := NewPlannerService(db, nil, nil, newTestRand())

	profile := plannerProfile()
	profile.Allergies = models.JSONBStringArray{"peanut"}

	plan, err := svc.GeneratePlan(context.Background(), profile, 4, PlanPreferences{})
	require.NoError(t, err)

	for _, day := range plan.Days {
		for _, snack := range day.Snacks {
			assert.NotEqual(t, "Peanut Butter Toast", snack.Title)
		}
	}
}

func TestGeneratePlanExcludeIngredientsPreference(t *testing.T) {
	db := newTestDB(t)
	seedPlannerCatalog(t, db)
	svc := NewPlannerService(db, nil, nil, newTestRand())

	plan, err := svc.GeneratePlan(context.Background(), plannerProfile(), 3, PlanPreferences{
		ExcludeIngredients: []string{"chicken"},
	})
	require.NoError(t, err)

	for _, day := range plan.Days {
		require.NotNil(t, day.Lunch)
		assert.Equal(t, "Lentil Soup", day.Lunch.Title)
	}
}

func TestGeneratePlanEmptySlotIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	// Catalog with no dinner recipes at all.
	recipes := []models.Recipe{
		plannerFixture("Oatmeal", models.DishBreakfast, 350, nil,
			models.Ingredient{Name: "rolled oats", Amount: 1, Unit: "cup", Aisle: "Cereal"}),
		plannerFixture("Chicken Salad", models.DishLunch, 550, nil,
			models.Ingredient{Name: "chicken breast", Amount: 200, Unit: "g", Aisle: "Meat"}),
	}
	require.NoError(t, db.Create(&recipes).Error)
	svc := NewPlannerService(db, nil, nil, newTestRand())

	plan, err := svc.GeneratePlan(context.Background(), plannerProfile(), 1, PlanPreferences{})
	require.NoError(t, err)

	day := plan.Days[0]
	assert.Nil(t, day.Dinner)
	assert.InDelta(t, 900, day.TotalCalories, 0.001)
	assert.InDelta(t, 900, plan.TotalCalories, 0.001)
}

func TestSelectBySlotPicksAmongClosestThree(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlannerService(db, nil, nil, newTestRand())

	var candidates []models.Recipe
	for _, cal := range []float64{300, 400, 500, 800, 1200} {
		candidates = append(candidates, plannerFixture("r", models.DishLunch, cal, nil))
	}

	target := 450.0
	// Rank all candidates by distance to the target; the pick must always be
	// one of the three closest.
	byDistance := append([]models.Recipe{}, candidates...)
	sort.SliceStable(byDistance, func(i, j int) bool {
		return math.Abs(byDistance[i].Nutrition.Calories-target) < math.Abs(byDistance[j].Nutrition.Calories-target)
	})
	allowed := map[float64]bool{
		byDistance[0].Nutrition.Calories: true,
		byDistance[1].Nutrition.Calories: true,
		byDistance[2].Nutrition.Calories: true,
	}

	for i := 0; i < 50; i++ {
		pick := svc.selectBySlot(candidates, models.DishLunch, target)
		require.NotNil(t, pick)
		assert.True(t, allowed[pick.Nutrition.Calories], "picked %v, want one of the 3 closest", pick.Nutrition.Calories)
	}
}

func TestGeneratePlanExternalRotation(t *testing.T) {
	db := newTestDB(t)
	ai := &stubAI{
		generateMealPlan: func(ctx context.Context, prefs MealPlanPreferences) (*AIMealPlan, error) {
			return &AIMealPlan{Meals: []AIMeal{
				{Name: "AI Breakfast", Type: models.DishBreakfast, Calories: 420, Ingredients: []string{"oats"}},
				{Name: "AI Lunch", Type: models.DishLunch, Calories: 610, Ingredients: []string{"rice"}},
				{Name: "AI Dinner", Type: models.DishDinner, Calories: 700, Ingredients: []string{"pasta"}},
			}}, nil
		},
	}
	svc := NewPlannerService(db, nil, ai, newTestRand())

	plan, err := svc.GeneratePlan(context.Background(), plannerProfile(), 2, PlanPreferences{})
	require.NoError(t, err)
	require.Len(t, plan.Days, 2)

	// Day 0 assigns each meal to its declared slot.
	day0 := plan.Days[0]
	require.NotNil(t, day0.Breakfast)
	assert.Equal(t, "AI Breakfast", day0.Breakfast.Title)
	assert.Equal(t, "AI Lunch", day0.Lunch.Title)
	assert.Equal(t, "AI Dinner", day0.Dinner.Title)

	// External calories are trusted as-is; totals still sum per day.
	assert.InDelta(t, 420+610+700, day0.TotalCalories, 0.001)
	assert.InDelta(t, 2*(420+610+700), plan.TotalCalories, 0.001)

	// Rotation keeps all three meals on day 1, just reassigned: every meal
	// still lands somewhere, misfits go to snacks.
	day1 := plan.Days[1]
	assert.Len(t, day1.Recipes(), 3)
	assert.InDelta(t, 420+610+700, day1.TotalCalories, 0.001)
}

func TestGeneratePlanFallsBackWhenAIFails(t *testing.T) {
	db := newTestDB(t)
	seedPlannerCatalog(t, db)
	svc := NewPlannerService(db, nil, &stubAI{}, newTestRand())

	plan, err := svc.GeneratePlan(context.Background(), plannerProfile(), 1, PlanPreferences{})
	require.NoError(t, err)
	require.NotNil(t, plan.Days[0].Breakfast)
	// Fallback serves catalog recipes, not AI output.
	assert.Contains(t, []string{"Oatmeal", "Omelette"}, plan.Days[0].Breakfast.Title)
}

func TestBuildShoppingListAggregatesByName(t *testing.T) {
	r1 := plannerFixture("Omelette", models.DishBreakfast, 400, nil,
		models.Ingredient{Name: "Eggs", Amount: 2, Unit: "large", Aisle: "Dairy"})
	r2 := plannerFixture("Scramble", models.DishLunch, 450, nil,
		models.Ingredient{Name: "eggs", Amount: 3, Unit: "large", Aisle: "Dairy"})

	plan := &models.MealPlan{Days: models.MealPlanDayList{{Breakfast: &r1, Lunch: &r2}}}
	list := BuildShoppingList(plan)

	require.Len(t, list, 1)
	item := list[0]
	assert.Equal(t, 5.0, item.Amount)
	assert.Equal(t, "large", item.Unit)
	assert.Len(t, item.RecipeIDs, 2)
	assert.ElementsMatch(t, []uuid.UUID{r1.ID, r2.ID}, item.RecipeIDs)
}

func TestBuildShoppingListFirstSeenUnitAndAisleWin(t *testing.T) {
	// Unit mismatches are summed anyway under the first unit seen; this is
	// long-standing behavior clients rely on seeing flagged in the list.
	r1 := plannerFixture("A", models.DishBreakfast, 400, nil,
		models.Ingredient{Name: "flour", Amount: 2, Unit: "cups", Aisle: "Baking"})
	r2 := plannerFixture("B", models.DishLunch, 450, nil,
		models.Ingredient{Name: "flour", Amount: 500, Unit: "g", Aisle: "Pantry"})

	plan := &models.MealPlan{Days: models.MealPlanDayList{{Breakfast: &r1, Lunch: &r2}}}
	list := BuildShoppingList(plan)

	require.Len(t, list, 1)
	assert.Equal(t, 502.0, list[0].Amount)
	assert.Equal(t, "cups", list[0].Unit)
	assert.Equal(t, "Baking", list[0].Aisle)
}

func TestBuildShoppingListSortedByAisle(t *testing.T) {
	r := plannerFixture("Mixed", models.DishDinner, 600, nil,
		models.Ingredient{Name: "salmon", Amount: 1, Unit: "fillet", Aisle: "Seafood"},
		models.Ingredient{Name: "broccoli", Amount: 1, Unit: "head", Aisle: "Produce"},
		models.Ingredient{Name: "butter", Amount: 1, Unit: "tbsp", Aisle: "Dairy"},
	)
	plan := &models.MealPlan{Days: models.MealPlanDayList{{Dinner: &r}}}

	list := BuildShoppingList(plan)
	require.Len(t, list, 3)
	assert.True(t, sort.SliceIsSorted(list, func(i, j int) bool { return list[i].Aisle < list[j].Aisle }))
}

func TestGetDraftWithoutRedis(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlannerService(db, nil, nil, newTestRand())

	_, err := svc.GetDraft(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestListPlans(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlannerService(db, nil, nil, newTestRand())

	userID := uuid.New()
	require.NoError(t, db.Create(&models.MealPlan{UserID: userID, StartDate: "2026-08-01", EndDate: "2026-08-07"}).Error)
	require.NoError(t, db.Create(&models.MealPlan{UserID: uuid.New(), StartDate: "2026-08-01", EndDate: "2026-08-07"}).Error)

	plans, err := svc.ListPlans(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
	assert.Equal(t, userID, plans[0].UserID)
}

func TestDecodeDraftEnforcesOwnership(t *testing.T) {
	owner := uuid.New()
	plan := &models.MealPlan{ID: uuid.New(), UserID: owner, StartDate: "2026-08-01", EndDate: "2026-08-07"}
	data, err := json.Marshal(plan)
	require.NoError(t, err)

	got, err := decodeDraft(data, owner)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)

	_, err = decodeDraft(data, uuid.New())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
