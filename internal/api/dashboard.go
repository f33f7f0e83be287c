package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutritrack/backend/internal/models"
	"github.com/nutritrack/backend/internal/service"
)

type DashboardHandler struct {
	profileService   service.IProfileService
	mealService      service.IMealLogService
	challengeService service.IChallengeService
}

func NewDashboardHandler(profileService service.IProfileService, mealService service.IMealLogService, challengeService service.IChallengeService) *DashboardHandler {
	return &DashboardHandler{
		profileService:   profileService,
		mealService:      mealService,
		challengeService: challengeService,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.GetDashboard)
}

type dashboardResponse struct {
	Date              string              `json:"date"`
	CalorieGoal       float64             `json:"calorie_goal"`
	CaloriesConsumed  float64             `json:"calories_consumed"`
	CaloriesRemaining float64             `json:"calories_remaining"`
	MacrosConsumed    models.MacroTargets `json:"macros_consumed"`
	MacroTargets      models.MacroTargets `json:"macro_targets"`
	MealsLogged       int                 `json:"meals_logged"`
	WaterTargetLiters float64             `json:"water_target_liters"`
	Challenges        *service.UserStats  `json:"challenges,omitempty"`
}

// GetDashboard assembles the daily overview: calories and macros against the
// profile targets plus challenge standings. A missing profile returns zero
// targets rather than an error, so the dashboard works before onboarding
// finishes.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}
	ctx := c.Request.Context()
	today := time.Now().Format("2006-01-02")

	resp := dashboardResponse{Date: today}

	profile, err := h.profileService.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, service.ErrProfileNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if profile != nil {
		resp.CalorieGoal = profile.DailyCalorieGoal
		resp.MacroTargets = profile.Macros
		resp.WaterTargetLiters = service.CalculateWaterIntake(profile)
	}

	meals, err := h.mealService.MealsForDate(ctx, userID, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load meals"})
		return
	}
	resp.MealsLogged = len(meals)
	for _, meal := range meals {
		resp.CaloriesConsumed += meal.TotalCalories
		for _, f := range meal.Foods {
			resp.MacrosConsumed.Protein += f.Protein
			resp.MacrosConsumed.Carbs += f.Carbs
			resp.MacrosConsumed.Fat += f.Fat
		}
	}
	resp.CaloriesRemaining = resp.CalorieGoal - resp.CaloriesConsumed

	if stats, err := h.challengeService.UserStats(ctx, userID); err == nil {
		resp.Challenges = stats
	}

	c.JSON(http.StatusOK, resp)
}
