// Command main runs the database seeder for CodeVault.
package main

import (
	"flag"
	"log"

	"codevault/config"
	"codevault/database"
	"codevault/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numAssets := flag.Int("assets", 100, "Number of assets to create")
	numPosts := flag.Int("posts", 50, "Number of community posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumAssets:   *numAssets,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
