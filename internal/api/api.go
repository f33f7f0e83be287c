package api

import (
	"log"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/nutritrack/backend/config"
	"github.com/nutritrack/backend/internal/middleware"
	"github.com/nutritrack/backend/internal/service"
)

// Deps carries the optional collaborators. Any of them may be nil; the
// affected features degrade instead of failing startup.
type Deps struct {
	Redis   *redis.Client
	AI      service.AIClient
	S3      *config.S3Config
	Fitness *service.FitnessClient
}

// SetupAPI wires services and handlers onto the /api/v1 group.
func SetupAPI(router *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	catalogService := service.NewCatalogService(db, deps.AI)
	plannerService := service.NewPlannerService(db, deps.Redis, deps.AI, rng)
	challengeService := service.NewChallengeService(db, nil)
	coachService := service.NewCoachService(db, deps.AI, rng, nil)
	mealService := service.NewMealLogService(db, deps.AI, nil)

	var photoService *service.PhotoService
	if deps.S3 != nil {
		photoService = service.NewPhotoService(deps.S3)
	}

	if err := service.SeedRecipes(db); err != nil {
		log.Printf("recipe seeding failed: %v", err)
	}
	if err := service.SeedChallenges(db); err != nil {
		log.Printf("challenge seeding failed: %v", err)
	}

	v1 := router.Group("/api/v1")

	NewAuthHandler(authService).RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(authService))
	{
		NewProfileHandler(profileService).RegisterRoutes(authed)
		NewRecipeHandler(catalogService).RegisterRoutes(authed)
		NewMealPlanHandler(plannerService, profileService).RegisterRoutes(authed)
		NewChallengeHandler(challengeService).RegisterRoutes(authed)
		NewMealHandler(mealService, photoService).RegisterRoutes(authed)
		NewChatHandler(coachService).RegisterRoutes(authed)
		NewDashboardHandler(profileService, mealService, challengeService).RegisterRoutes(authed)
		NewFitnessHandler(deps.Fitness).RegisterRoutes(authed)
	}
}
