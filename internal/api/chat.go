package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutritrack/backend/internal/service"
)

type ChatHandler struct {
	coachService service.ICoachService
}

func NewChatHandler(coachService service.ICoachService) *ChatHandler {
	return &ChatHandler{coachService: coachService}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/chat")
	{
		chat.POST("", h.SendMessage)
		chat.GET("", h.History)
	}
	// The coach endpoint is the same conversation; kept for older clients.
	router.POST("/coach", h.SendMessage)
	router.GET("/coach/recommendations", h.Recommendations)
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.coachService.Respond(c.Request.Context(), userID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to answer"})
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Recommendations returns today's coaching tips.
func (h *ChatHandler) Recommendations(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	recs, err := h.coachService.DailyRecommendations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build recommendations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

func (h *ChatHandler) History(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := h.coachService.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
