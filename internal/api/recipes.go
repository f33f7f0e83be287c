package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutritrack/backend/internal/service"
)

type RecipeHandler struct {
	catalogService service.ICatalogService
}

func NewRecipeHandler(catalogService service.ICatalogService) *RecipeHandler {
	return &RecipeHandler{catalogService: catalogService}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.catalogService.ListRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.catalogService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get recipe"})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	var filters service.RecipeFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search filters"})
		return
	}

	recipes, err := h.catalogService.Search(c.Request.Context(), c.Query("q"), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
