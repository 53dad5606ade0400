package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MonkyMars/gecho"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"productcatalog/internal/cache"
	"productcatalog/internal/config"
	"productcatalog/internal/database"
	"productcatalog/internal/domain/product"
	"productcatalog/internal/domain/upload"
	"productcatalog/internal/server"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		gecho.NewDefaultLogger().Fatal("Invalid configuration", gecho.Field("error", err))
	}
	logger := config.NewLogger(cfg)
	if envErr != nil {
		logger.Warn("No .env file found, using process environment")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect database", gecho.Field("error", err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", gecho.Field("error", err))
	}
	if cfg.SeedSampleData {
		n, err := database.SeedIfEmpty(ctx, db)
		if err != nil {
			logger.Fatal("Failed to seed sample products", gecho.Field("error", err))
		}
		if n > 0 {
			logger.Info("Seeded sample products", gecho.Field("count", n))
		}
	}

	storage, err := upload.NewStorage(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", gecho.Field("error", err))
	}

	var opts []product.Option
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", gecho.Field("error", err))
		} else {
			defer rc.Close()
			opts = append(opts, product.WithCache(rc, cfg.CacheTTL))
			logger.Info("Product cache enabled", gecho.Field("addr", cfg.RedisAddr))
		}
	}

	products := product.NewService(product.NewRepository(db), storage, logger, opts...)
	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Products: products,
		Storage:  storage,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", gecho.Field("addr", srv.Addr), gecho.Field("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", gecho.Field("error", err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", gecho.Field("error", err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
