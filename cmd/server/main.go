package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sori-music/backend/internal/repositories"
	"github.com/sori-music/backend/internal/router"
	"github.com/sori-music/backend/pkg/config"
	"github.com/sori-music/backend/pkg/firebase"
	"github.com/sori-music/backend/pkg/logger"
	"github.com/sori-music/backend/validators"
	"go.uber.org/zap"
)

// storySweepInterval is how often expired stories are physically removed.
const storySweepInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Redis
	rdb, err := config.InitRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer rdb.Close()

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient, rdb, cfg)

	// Validator
	e.Validator = validators.NewValidator()

	// Prometheus metrics on a separate port, away from the public API
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			logger.L.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	// Periodically sweep expired stories out of Mongo
	storyRepo := repositories.NewStoryRepository(db.Mongo.Database("sorimusic"), db.Postgres)
	go func() {
		ticker := time.NewTicker(storySweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if err := storyRepo.DeleteExpiredStories(context.Background()); err != nil {
				logger.L.Warn("expired story sweep failed", zap.Error(err))
			}
		}
	}()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
