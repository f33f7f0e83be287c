package service

import (
	"github.com/nutritrack/backend/internal/models"
	"gorm.io/gorm"
)

// SeedRecipes inserts the built-in recipe catalog when the table is empty.
// The catalog backs the local fallback paths, so this runs at startup and
// in cmd/seed_recipes.
func SeedRecipes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Recipe{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(builtinRecipes()).Error
}

func builtinRecipes() []models.Recipe {
	return []models.Recipe{
		{
			Title:          "Protein-Packed Scrambled Eggs",
			Summary:        "High-protein breakfast with vegetables for a nutritious start to your day.",
			ReadyInMinutes: 10,
			Servings:       1,
			Nutrition:      models.Nutrition{Calories: 280, Protein: 20, Carbs: 4, Fat: 20, Fiber: 2},
			Ingredients: models.IngredientList{
				{Name: "eggs", Amount: 3, Unit: "large", Original: "3 large eggs", Aisle: "Dairy"},
				{Name: "spinach", Amount: 1, Unit: "cup", Original: "1 cup fresh spinach", Aisle: "Produce"},
				{Name: "olive oil", Amount: 1, Unit: "tsp", Original: "1 tsp olive oil", Aisle: "Oils"},
			},
			Instructions: models.JSONBStringArray{
				"Heat oil in a non-stick pan over medium heat",
				"Whisk eggs with salt and pepper in a bowl",
				"Add spinach to pan and cook until wilted",
				"Pour in eggs and gently scramble until set",
			},
			Diets:     models.JSONBStringArray{"vegetarian", "low-carb", "keto"},
			DishTypes: models.JSONBStringArray{"breakfast"},
			Tags:      models.JSONBStringArray{"high-protein", "quick", "healthy"},
		},
		{
			Title:          "Overnight Oats with Berries",
			Summary:        "Make-ahead breakfast rich in fiber and antioxidants.",
			ReadyInMinutes: 5,
			Servings:       1,
			Nutrition:      models.Nutrition{Calories: 320, Protein: 12, Carbs: 58, Fat: 6, Fiber: 8},
			Ingredients: models.IngredientList{
				{Name: "oats", Amount: 0.5, Unit: "cup", Original: "1/2 cup rolled oats", Aisle: "Cereal"},
				{Name: "milk", Amount: 0.5, Unit: "cup", Original: "1/2 cup milk", Aisle: "Dairy"},
				{Name: "berries", Amount: 0.5, Unit: "cup", Original: "1/2 cup mixed berries", Aisle: "Produce"},
				{Name: "honey", Amount: 1, Unit: "tbsp", Original: "1 tbsp honey", Aisle: "Baking"},
			},
			Instructions: models.JSONBStringArray{
				"Mix oats, milk, and chia seeds in a jar",
				"Add honey and vanilla extract",
				"Top with berries and refrigerate overnight",
				"Enjoy cold or heat briefly in microwave",
			},
			Diets:     models.JSONBStringArray{"vegetarian"},
			DishTypes: models.JSONBStringArray{"breakfast"},
			Tags:      models.JSONBStringArray{"make-ahead", "fiber-rich", "antioxidants"},
		},
		{
			Title:          "Grilled Chicken Salad Bowl",
			Summary:        "Lean protein with fresh vegetables for a balanced, satisfying meal.",
			ReadyInMinutes: 20,
			Servings:       1,
			Nutrition:      models.Nutrition{Calories: 280, Protein: 35, Carbs: 8, Fat: 12, Fiber: 4},
			Ingredients: models.IngredientList{
				{Name: "chicken breast", Amount: 120, Unit: "g", Original: "120g chicken breast", Aisle: "Meat"},
				{Name: "mixed greens", Amount: 2, Unit: "cups", Original: "2 cups mixed greens", Aisle: "Produce"},
				{Name: "cherry tomatoes", Amount: 0.5, Unit: "cup", Original: "1/2 cup cherry tomatoes", Aisle: "Produce"},
				{Name: "cucumber", Amount: 0.5, Unit: "cup", Original: "1/2 cup diced cucumber", Aisle: "Produce"},
			},
			Instructions: models.JSONBStringArray{
				"Season chicken breast with herbs and spices",
				"Grill chicken for 6-7 minutes per side",
				"Let chicken rest, then slice",
				"Arrange salad greens and vegetables in bowl",
				"Top with sliced chicken and dressing",
			},
			Diets:     models.JSONBStringArray{"low-carb", "high-protein"},
			DishTypes: models.JSONBStringArray{"lunch", "salad"},
			Tags:      models.JSONBStringArray{"lean-protein", "fresh", "balanced"},
		},
		{
			Title:          "Quinoa Buddha Bowl",
			Summary:        "Complete protein quinoa with colorful vegetables and tahini dressing.",
			ReadyInMinutes: 30,
			Servings:       1,
			Nutrition:      models.Nutrition{Calories: 380, Protein: 15, Carbs: 52, Fat: 14, Fiber: 10},
			Ingredients: models.IngredientList{
				{Name: "quinoa", Amount: 0.5, Unit: "cup", Original: "1/2 cup quinoa", Aisle: "Grains"},
				{Name: "chickpeas", Amount: 0.5, Unit: "cup", Original: "1/2 cup chickpeas", Aisle: "Canned Goods"},
				{Name: "bell pepper", Amount: 1, Unit: "medium", Original: "1 medium bell pepper", Aisle: "Produce"},
				{Name: "tahini", Amount: 2, Unit: "tbsp", Original: "2 tbsp tahini", Aisle: "Condiments"},
			},
			Instructions: models.JSONBStringArray{
				"Cook quinoa according to package directions",
				"Roast vegetables in oven at 400°F for 20 minutes",
				"Prepare tahini dressing by mixing all ingredients",
				"Assemble bowl with quinoa, vegetables, and dressing",
			},
			Diets:     models.JSONBStringArray{"vegetarian", "vegan", "gluten-free"},
			DishTypes: models.JSONBStringArray{"lunch", "dinner"},
			Tags:      models.JSONBStringArray{"plant-based", "complete-protein", "fiber-rich"},
		},
		{
			Title:          "Baked Salmon with Vegetables",
			Summary:        "Omega-3 rich salmon with roasted vegetables for a complete dinner.",
			ReadyInMinutes: 25,
			Servings:       1,
			Nutrition:      models.Nutrition{Calories: 420, Protein: 32, Carbs: 28, Fat: 22, Fiber: 6},
			Ingredients: models.IngredientList{
				{Name: "salmon fillet", Amount: 150, Unit: "g", Original: "150g salmon fillet", Aisle: "Seafood"},
				{Name: "broccoli", Amount: 1, Unit: "cup", Original: "1 cup broccoli florets", Aisle: "Produce"},
				{Name: "sweet potato", Amount: 1, Unit: "medium", Original: "1 medium sweet potato", Aisle: "Produce"},
				{Name: "olive oil", Amount: 1, Unit: "tbsp", Original: "1 tbsp olive oil", Aisle: "Oils"},
			},
			Instructions: models.JSONBStringArray{
				"Preheat oven to 400°F (200°C)",
				"Place salmon and vegetables on baking sheet",
				"Drizzle with olive oil and seasonings",
				"Bake for 18-20 minutes until salmon flakes easily",
			},
			Diets:     models.JSONBStringArray{"low-carb", "high-protein", "omega-3"},
			DishTypes: models.JSONBStringArray{"dinner", "main course"},
			Tags:      models.JSONBStringArray{"omega-3", "one-pan", "nutritious"},
		},
		{
			Title:          "Turkey and Veggie Stir-Fry",
			Summary:        "Quick lean-protein dinner with crisp vegetables over rice.",
			ReadyInMinutes: 20,
			Servings:       1,
			Nutrition:      models.Nutrition{Calories: 460, Protein: 38, Carbs: 42, Fat: 14, Fiber: 5},
			Ingredients: models.IngredientList{
				{Name: "ground turkey", Amount: 130, Unit: "g", Original: "130g ground turkey", Aisle: "Meat"},
				{Name: "brown rice", Amount: 0.5, Unit: "cup", Original: "1/2 cup brown rice", Aisle: "Grains"},
				{Name: "bell pepper", Amount: 1, Unit: "medium", Original: "1 medium bell pepper", Aisle: "Produce"},
				{Name: "soy sauce", Amount: 1, Unit: "tbsp", Original: "1 tbsp soy sauce", Aisle: "Condiments"},
			},
			Instructions: models.JSONBStringArray{
				"Cook rice according to package directions",
				"Brown turkey in a hot wok",
				"Add vegetables and stir-fry until crisp-tender",
				"Season with soy sauce and serve over rice",
			},
			Diets:     models.JSONBStringArray{"high-protein"},
			DishTypes: models.JSONBStringArray{"dinner"},
			Tags:      models.JSONBStringArray{"quick", "lean-protein"},
		},
		{
			Title:          "Greek Yogurt with Almonds",
			Summary:        "Protein-rich snack that keeps you full between meals.",
			ReadyInMinutes: 2,
			Servings:       1,
			Nutrition:      models.Nutrition{Calories: 180, Protein: 15, Carbs: 10, Fat: 9, Fiber: 2},
			Ingredients: models.IngredientList{
				{Name: "greek yogurt", Amount: 150, Unit: "g", Original: "150g greek yogurt", Aisle: "Dairy"},
				{Name: "almonds", Amount: 15, Unit: "g", Original: "15g almonds", Aisle: "Nuts"},
			},
			Instructions: models.JSONBStringArray{
				"Spoon yogurt into a bowl",
				"Top with almonds",
			},
			Diets:     models.JSONBStringArray{"vegetarian", "low-carb", "high-protein", "gluten-free"},
			DishTypes: models.JSONBStringArray{"snack"},
			Tags:      models.JSONBStringArray{"high-protein", "quick"},
		},
		{
			Title:          "Apple with Peanut Butter",
			Summary:        "Fiber and healthy fats in a two-minute snack.",
			ReadyInMinutes: 2,
			Servings:       1,
			Nutrition:      models.Nutrition{Calories: 190, Protein: 5, Carbs: 25, Fat: 9, Fiber: 5},
			Ingredients: models.IngredientList{
				{Name: "apple", Amount: 1, Unit: "medium", Original: "1 medium apple", Aisle: "Produce"},
				{Name: "peanut butter", Amount: 1, Unit: "tbsp", Original: "1 tbsp peanut butter", Aisle: "Condiments"},
			},
			Instructions: models.JSONBStringArray{
				"Slice the apple",
				"Serve with peanut butter for dipping",
			},
			Diets:     models.JSONBStringArray{"vegetarian", "vegan", "gluten-free"},
			DishTypes: models.JSONBStringArray{"snack"},
			Tags:      models.JSONBStringArray{"fiber-rich", "quick"},
		},
	}
}
