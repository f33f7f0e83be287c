package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutritrack/backend/internal/service"
)

type FitnessHandler struct {
	fitnessClient *service.FitnessClient
}

func NewFitnessHandler(fitnessClient *service.FitnessClient) *FitnessHandler {
	return &FitnessHandler{fitnessClient: fitnessClient}
}

func (h *FitnessHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/fitness/steps", h.GetSteps)
}

// GetSteps proxies daily step counts from the fitness provider. Provider
// outages return an empty list, not an error: step data is decorative.
func (h *FitnessHandler) GetSteps(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	to := c.DefaultQuery("to", time.Now().Format("2006-01-02"))
	from := c.DefaultQuery("from", time.Now().AddDate(0, 0, -6).Format("2006-01-02"))

	if h.fitnessClient == nil {
		c.JSON(http.StatusOK, gin.H{"days": []service.StepDay{}})
		return
	}

	days, err := h.fitnessClient.Steps(c.Request.Context(), userID.String(), from, to)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"days": []service.StepDay{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}
