package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutritrack/backend/internal/service"
)

type MealPlanHandler struct {
	plannerService service.IPlannerService
	profileService service.IProfileService
}

func NewMealPlanHandler(plannerService service.IPlannerService, profileService service.IProfileService) *MealPlanHandler {
	return &MealPlanHandler{plannerService: plannerService, profileService: profileService}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/mealplans")
	{
		plans.POST("/generate", h.GeneratePlan)
		plans.POST("/:id/save", h.SavePlan)
		plans.GET("", h.ListPlans)
		plans.GET("/:id", h.GetPlan)
	}
}

type generatePlanRequest struct {
	Days               int      `json:"days"`
	Diet               string   `json:"diet"`
	MaxReadyTime       int      `json:"max_ready_time"`
	ExcludeIngredients []string `json:"exclude_ingredients"`
	IncludeIngredients []string `json:"include_ingredients"`
}

// GeneratePlan creates a draft plan from the caller's nutrition profile.
// The draft, shopping list included, is returned immediately and kept until
// saved or expired.
func (h *MealPlanHandler) GeneratePlan(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Days == 0 {
		req.Days = 7
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "create a nutrition profile before generating a plan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	plan, err := h.plannerService.GeneratePlan(c.Request.Context(), profile, req.Days, service.PlanPreferences{
		Diet:               req.Diet,
		MaxReadyTime:       req.MaxReadyTime,
		ExcludeIngredients: req.ExcludeIngredients,
		IncludeIngredients: req.IncludeIngredients,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCalorieGoal), errors.Is(err, service.ErrInvalidDayCount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate meal plan"})
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) SavePlan(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.plannerService.SavePlan(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save meal plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) ListPlans(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	plans, err := h.plannerService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list meal plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal_plans": plans})
}

// GetPlan returns a draft if one exists for the id, otherwise nothing; saved
// plans come back through ListPlans.
func (h *MealPlanHandler) GetPlan(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.plannerService.GetDraft(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get meal plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}
