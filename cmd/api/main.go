package main

import (
	"context"
	"log"

	"github.com/nutritrack/backend/config"
	"github.com/nutritrack/backend/internal/api"
	"github.com/nutritrack/backend/internal/database"
	"github.com/nutritrack/backend/internal/router"
	"github.com/nutritrack/backend/internal/server"
	"github.com/nutritrack/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	deps := api.Deps{}

	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, meal plan drafts will not persist: %v", err)
	} else {
		deps.Redis = redisClient
	}

	if aiService, err := service.NewAIService(); err != nil {
		log.Printf("AI service unavailable, using local fallbacks: %v", err)
	} else {
		deps.AI = aiService
	}

	if s3Config, err := config.NewS3Config(context.Background(), cfg); err != nil {
		log.Printf("S3 unavailable, photo upload disabled: %v", err)
	} else {
		deps.S3 = s3Config
	}

	if cfg.FitnessAPIKey != "" && cfg.FitnessBaseURL != "" {
		deps.Fitness = service.NewFitnessClient(cfg.FitnessAPIKey, cfg.FitnessBaseURL)
	}

	r := router.New(db, cfg, deps)
	srv := server.New(r, cfg.ServerHost+":"+cfg.ServerPort)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
