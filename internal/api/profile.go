package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutritrack/backend/internal/models"
	"github.com/nutritrack/backend/internal/service"
)

type ProfileHandler struct {
	profileService service.IProfileService
}

func NewProfileHandler(profileService service.IProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.SaveProfile)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profileRequest struct {
	Age                 int      `json:"age" binding:"required,gt=0"`
	Gender              string   `json:"gender" binding:"required"`
	HeightCM            float64  `json:"height_cm" binding:"required,gt=0"`
	WeightKG            float64  `json:"weight_kg" binding:"required,gt=0"`
	ActivityLevel       string   `json:"activity_level"`
	Goal                string   `json:"goal"`
	TargetWeightKG      float64  `json:"target_weight_kg"`
	WeeklyGoalKG        float64  `json:"weekly_goal_kg"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Allergies           []string `json:"allergies"`
}

// SaveProfile upserts the caller's nutrition profile. The calorie goal and
// macro targets in the response are derived server-side.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile := &models.NutritionProfile{
		UserID:              userID,
		Age:                 req.Age,
		Gender:              req.Gender,
		HeightCM:            req.HeightCM,
		WeightKG:            req.WeightKG,
		ActivityLevel:       req.ActivityLevel,
		Goal:                req.Goal,
		TargetWeightKG:      req.TargetWeightKG,
		WeeklyGoalKG:        req.WeeklyGoalKG,
		DietaryRestrictions: models.JSONBStringArray(req.DietaryRestrictions),
		Allergies:           models.JSONBStringArray(req.Allergies),
	}
	if profile.ActivityLevel == "" {
		profile.ActivityLevel = models.ActivityModerate
	}
	if profile.Goal == "" {
		profile.Goal = models.GoalMaintainWeight
	}

	saved, err := h.profileService.SaveProfile(c.Request.Context(), profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}
	c.JSON(http.StatusOK, saved)
}
