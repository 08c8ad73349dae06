// Command seed runs the database seeder for ReviewHub.
package main

import (
	"flag"
	"log"

	"reviewhub/internal/config"
	"reviewhub/internal/database"
	"reviewhub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numTitles := flag.Int("titles", 100, "Number of titles to create")
	numReviews := flag.Int("reviews", 300, "Number of reviews to attempt")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d titles, %d reviews, clean=%v\n",
		*numUsers, *numTitles, *numReviews, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:   *numUsers,
		NumTitles:  *numTitles,
		NumReviews: *numReviews,
		Clean:      *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
