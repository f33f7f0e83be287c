package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutritrack/backend/internal/models"
	"github.com/nutritrack/backend/internal/service"
)

type MealHandler struct {
	mealService  service.IMealLogService
	photoService *service.PhotoService
}

func NewMealHandler(mealService service.IMealLogService, photoService *service.PhotoService) *MealHandler {
	return &MealHandler{mealService: mealService, photoService: photoService}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.POST("", h.LogMeal)
		meals.GET("", h.ListMeals)
		meals.POST("/photo", h.UploadPhoto)
	}
}

type logMealRequest struct {
	Description string             `json:"description"`
	MealType    string             `json:"meal_type"`
	Foods       []models.FoodEntry `json:"foods"`
	ImageURL    string             `json:"image_url"`
}

// LogMeal records a meal. Itemized foods are stored as given; a bare
// description goes through nutrition analysis first.
func (h *MealHandler) LogMeal(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	var req logMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var (
		meal *models.MealLog
		err  error
	)
	if len(req.Foods) > 0 {
		meal, err = h.mealService.LogMeal(c.Request.Context(), &models.MealLog{
			UserID:   userID,
			Foods:    models.FoodEntryList(req.Foods),
			MealType: req.MealType,
			ImageURL: req.ImageURL,
		})
	} else {
		meal, err = h.mealService.AnalyzeAndLog(c.Request.Context(), userID, req.Description, req.MealType)
	}
	if err != nil {
		if errors.Is(err, service.ErrEmptyMealDescription) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log meal"})
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// ListMeals returns the caller's meal logs; ?date=YYYY-MM-DD narrows to one
// day.
func (h *MealHandler) ListMeals(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}

	var (
		meals []models.MealLog
		err   error
	)
	if date := c.Query("date"); date != "" {
		meals, err = h.mealService.MealsForDate(c.Request.Context(), userID, date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
			return
		}
	} else {
		meals, err = h.mealService.ListMeals(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list meals"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

// UploadPhoto stores a meal photo and returns its URL for use on a meal log.
func (h *MealHandler) UploadPhoto(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		return
	}
	if h.photoService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage is not configured"})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}

	url, err := h.photoService.UploadMealPhoto(c.Request.Context(), userID, header.Filename, data)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImageType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload photo"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
