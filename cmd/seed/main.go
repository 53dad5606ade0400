package main

import (
	"context"
	"flag"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"

	"productcatalog/internal/config"
	"productcatalog/internal/database"
	"productcatalog/internal/domain"
)

func main() {
	reset := flag.Bool("reset", false, "delete all products before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		gecho.NewDefaultLogger().Fatal("Invalid configuration", gecho.Field("error", err))
	}
	logger := config.NewLogger(cfg)
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("DB connection failed", gecho.Field("error", err))
	}

	logger.Info("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		logger.Fatal("AutoMigrate failed", gecho.Field("error", err))
	}

	if *reset {
		res := db.WithContext(ctx).Where("1 = 1").Delete(&domain.Product{})
		if res.Error != nil {
			logger.Fatal("Cleaning old products failed", gecho.Field("error", res.Error))
		}
		logger.Info("Cleaned old products", gecho.Field("deleted", res.RowsAffected))
	}

	n, err := database.SeedIfEmpty(ctx, db)
	if err != nil {
		logger.Fatal("Seeding failed", gecho.Field("error", err))
	}
	if n == 0 {
		logger.Info("Products table not empty, nothing seeded (use -reset to replace)")
		return
	}
	logger.Info("Seed completed", gecho.Field("products", n))
}
