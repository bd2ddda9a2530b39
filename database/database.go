// Package database handles the database connection and schema migration.
package database

import (
	"fmt"
	"log"

	"codevault/config"
	"codevault/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres connection and migrates the schema.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	log.Println("Database connected and migrated")
	return db, nil
}

// Migrate runs schema migration for all models. Also used by tests against SQLite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Counter{},
		&models.User{},
		&models.Category{},
		&models.Asset{},
		&models.AssetLike{},
		&models.CommunityPost{},
		&models.PostLike{},
		&models.Comment{},
		&models.Contest{},
		&models.ContestEntry{},
		&models.EntryVote{},
		&models.Review{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
	)
}
