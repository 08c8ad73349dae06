// Command migrate applies the database schema.
package main

import (
	"log"

	"reviewhub/internal/config"
	"reviewhub/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.ApplySchema(db); err != nil {
		log.Fatalf("Schema apply failed: %v", err)
	}
	log.Println("Schema applied")
}
