package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutritrack/backend/internal/models"
	"github.com/nutritrack/backend/internal/service"
)

type ChallengeHandler struct {
	challengeService service.IChallengeService
}

func NewChallengeHandler(challengeService service.IChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

func (h *ChallengeHandler) RegisterRoutes(router *gin.RouterGroup) {
	challenges := router.Group("/challenges")
	{
		challenges.GET("", h.ListChallenges)
		challenges.POST("", h.CreateChallenge)
		challenges.GET("/stats", h.UserStats)
		challenges.GET("/:id", h.GetChallenge)
		challenges.POST("/:id/join", h.Join)
		challenges.POST("/:id/progress", h.UpdateProgress)
		challenges.GET("/:id/leaderboard", h.Leaderboard)
	}
}

type createChallengeRequest struct {
	Title           string                   `json:"title" binding:"required"`
	Description     string                   `json:"description"`
	Type            string                   `json:"type" binding:"required"`
	Duration        int                      `json:"duration" binding:"required,gt=0"`
	StartDate       string                   `json:"start_date"`
	Goals           []models.ChallengeGoal   `json:"goals" binding:"required,min=1"`
	Rewards         []models.ChallengeReward `json:"rewards"`
	Rules           []string                 `json:"rules"`
	Difficulty      string                   `json:"difficulty"`
	MaxParticipants int                      `json:"max_participants"`
}

func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	challenge := &models.Challenge{
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Duration:        req.Duration,
		StartDate:       req.StartDate,
		Goals:           models.ChallengeGoalList(req.Goals),
		Rewards:         models.ChallengeRewardList(req.Rewards),
		Rules:           models.JSONBStringArray(req.Rules),
		Difficulty:      req.Difficulty,
		MaxParticipants: req.MaxParticipants,
		CreatedBy:       userID.String(),
	}

	created, err := h.challengeService.CreateChallenge(c.Request.Context(), challenge)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create challenge"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	var filters service.ChallengeFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filters"})
		return
	}

	challenges, err := h.challengeService.ListChallenges(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list challenges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	challenge, err := h.challengeService.GetChallenge(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get challenge"})
		return
	}
	c.JSON(http.StatusOK, challenge)
}

type joinRequest struct {
	Username string `json:"username"`
}

func (h *ChallengeHandler) Join(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req joinRequest
	_ = c.ShouldBindJSON(&req)
	if req.Username == "" {
		req.Username = "anonymous"
	}

	if err := h.challengeService.Join(c.Request.Context(), id, userID, req.Username); err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrChallengeFull), errors.Is(err, service.ErrAlreadyJoined):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join challenge"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "joined challenge"})
}

// Value carries no required tag: zero is a valid progress value and gin's
// required binding rejects zero values.
type progressRequest struct {
	GoalID string  `json:"goal_id" binding:"required"`
	Value  float64 `json:"value"`
}

func (h *ChallengeHandler) UpdateProgress(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	progress, err := h.challengeService.UpdateProgress(c.Request.Context(), id, userID, req.GoalID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound), errors.Is(err, service.ErrGoalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update progress"})
		}
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *ChallengeHandler) Leaderboard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, err := h.challengeService.Leaderboard(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build leaderboard"})
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *ChallengeHandler) UserStats(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	stats, err := h.challengeService.UserStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get challenge stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
