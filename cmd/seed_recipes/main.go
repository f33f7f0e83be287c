package main

import (
	"log"

	"github.com/nutritrack/backend/config"
	"github.com/nutritrack/backend/internal/database"
	"github.com/nutritrack/backend/internal/service"
)

// Seeds the recipe catalog and starter challenges. Both seeders are no-ops
// when their tables already hold rows.
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

	if err := service.SeedRecipes(db); err != nil {
		log.Fatalf("Failed to seed recipes: %v", err)
	}
	if err := service.SeedChallenges(db); err != nil {
		log.Fatalf("Failed to seed challenges: %v", err)
	}
	log.Println("Seeding complete")
}
