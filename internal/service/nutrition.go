package service

import (
	"math"
	"time"

	"github.com/nutritrack/backend/internal/models"
)

// activityMultipliers maps activity levels to their TDEE multiplier. This is
// the single source of truth for valid activity levels.
var activityMultipliers = map[string]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

const (
	caloriesPerKGFat = 7700
	minDailyCalories = 1200
)

// CalculateBMR computes Basal Metabolic Rate via Mifflin-St Jeor.
func CalculateBMR(p *models.NutritionProfile) float64 {
	bmr := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age)
	if p.Gender == "male" {
		return bmr + 5
	}
	return bmr - 161
}

// CalculateTDEE multiplies BMR by the profile's activity multiplier.
// Unknown activity levels fall back to moderate.
func CalculateTDEE(p *models.NutritionProfile) float64 {
	mult, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		mult = activityMultipliers[models.ActivityModerate]
	}
	return CalculateBMR(p) * mult
}

// CalculateDailyCalorieGoal derives the daily calorie target from TDEE and
// the user's goal. Weight-loss targets never drop below 1200 kcal.
func CalculateDailyCalorieGoal(p *models.NutritionProfile) float64 {
	tdee := CalculateTDEE(p)
	weeklyGoal := p.WeeklyGoalKG
	if weeklyGoal == 0 {
		weeklyGoal = 0.5
	}
	dailyDelta := weeklyGoal * caloriesPerKGFat / 7

	switch p.Goal {
	case models.GoalLoseWeight:
		return math.Max(tdee-dailyDelta, minDailyCalories)
	case models.GoalGainWeight:
		return tdee + dailyDelta
	case models.GoalBuildMuscle:
		return tdee + 300
	default:
		return tdee
	}
}

// CalculateMacroTargets splits daily calories into gram targets. Protein and
// carbs count 4 kcal/g, fat 9 kcal/g.
func CalculateMacroTargets(p *models.NutritionProfile, dailyCalories float64) models.MacroTargets {
	var proteinRatio, fatRatio, carbRatio float64

	switch p.Goal {
	case models.GoalLoseWeight, models.GoalBuildMuscle:
		proteinRatio, fatRatio, carbRatio = 0.30, 0.25, 0.45
	case models.GoalGainWeight:
		proteinRatio, fatRatio, carbRatio = 0.20, 0.30, 0.50
	default:
		proteinRatio, fatRatio, carbRatio = 0.25, 0.25, 0.50
	}

	return models.MacroTargets{
		Protein: dailyCalories * proteinRatio / 4,
		Carbs:   dailyCalories * carbRatio / 4,
		Fat:     dailyCalories * fatRatio / 9,
	}
}

// ApplyGoals recomputes DailyCalorieGoal and Macros together from the same
// profile snapshot. Every profile write goes through here so the two derived
// fields can never drift apart.
func ApplyGoals(p *models.NutritionProfile) {
	p.DailyCalorieGoal = CalculateDailyCalorieGoal(p)
	p.Macros = CalculateMacroTargets(p, p.DailyCalorieGoal)
	p.UpdatedAt = time.Now()
}

// CalculateWaterIntake suggests daily water in liters (35ml per kg, scaled
// by activity).
func CalculateWaterIntake(p *models.NutritionProfile) float64 {
	base := p.WeightKG * 0.035
	mult := map[string]float64{
		models.ActivitySedentary:  1.0,
		models.ActivityLight:      1.1,
		models.ActivityModerate:   1.2,
		models.ActivityActive:     1.3,
		models.ActivityVeryActive: 1.4,
	}[p.ActivityLevel]
	if mult == 0 {
		mult = 1.0
	}
	return base * mult
}

// IdealWeightRange returns the weight band for a healthy BMI (18.5-24.9).
func IdealWeightRange(heightCM float64) (min, max float64) {
	m := heightCM / 100
	min = math.Round(18.5*m*m*10) / 10
	max = math.Round(24.9*m*m*10) / 10
	return min, max
}
