// Command main runs the database seeder for TasteID.
package main

import (
	"flag"
	"log"

	"tasteid/internal/config"
	"tasteid/internal/database"
	"tasteid/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of demo users to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{NumUsers: *numUsers, ShouldClean: *shouldClean}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Demo users have the password: password123")
}
