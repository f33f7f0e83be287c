package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutritrack/backend/config"
	"github.com/nutritrack/backend/internal/api"
	"github.com/nutritrack/backend/internal/database"
	"github.com/nutritrack/backend/internal/middleware"
)

// New builds the gin engine with middleware, the health endpoint and the
// /api/v1 surface.
func New(db *gorm.DB, cfg *config.Config, deps api.Deps) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.SetupAPI(router, db, cfg, deps)
	return router
}
