package main

import (
	"context"
	"flag"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"

	"productcatalog/internal/config"
	"productcatalog/internal/database"
	"productcatalog/internal/domain/product"
	"productcatalog/internal/domain/upload"
)

// Deletes stored images no product references any more: files left behind
// by deleted products and by image replacement on update.
func main() {
	minAge := flag.Duration("min-age", time.Hour, "keep unreferenced files modified more recently than this")
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
		logger.Fatal("db connect failed", gecho.Field("error", err))
	}
	storage, err := upload.NewStorage(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		logger.Fatal("upload dir unavailable", gecho.Field("error", err))
	}

	products := product.NewService(product.NewRepository(db), storage, logger)
	keep, err := products.ReferencedImages(ctx)
	if err != nil {
		logger.Fatal("listing referenced images failed", gecho.Field("error", err))
	}

	removed, err := storage.Prune(ctx, keep, *minAge)
	if err != nil {
		logger.Fatal("orphan cleanup failed", gecho.Field("error", err), gecho.Field("removed", len(removed)))
	}

	logger.Info("orphan cleanup completed",
		gecho.Field("referenced", len(keep)),
		gecho.Field("removed", len(removed)),
	)
}
