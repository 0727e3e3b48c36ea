package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sori-music/backend/internal/ai"
	"github.com/sori-music/backend/internal/handlers"
	"github.com/sori-music/backend/internal/middleware"
	"github.com/sori-music/backend/internal/models"
	"github.com/sori-music/backend/internal/music"
	"github.com/sori-music/backend/internal/realtime"
	"github.com/sori-music/backend/internal/repositories"
	"github.com/sori-music/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.PrometheusMiddleware())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, rdb *redis.Client, cfg *config.Config) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.Follow{},
		&models.SavedPost{},
		&models.Repost{},
		&models.StorySeen{},
		&models.StoryReaction{},
		&models.Notification{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.Hashtag{},
		&models.PostHashtag{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible; metrics are served on their own port
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database("sorimusic")
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(pgdb)
	repostRepo := repositories.NewPostgresRepostRepository(pgdb)
	storyRepo := repositories.NewStoryRepository(mongoDB, pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	conversationRepo := repositories.NewPostgresConversationRepository(pgdb)
	messageRepo := repositories.NewPostgresMessageRepository(pgdb)
	hashtagRepo := repositories.NewPostgresHashtagRepository(pgdb)

	// --- Realtime hub and notification fan-out ---
	hub := realtime.NewHub()
	notifier := realtime.NewNotifier(notificationRepo, hub)

	// --- External services ---
	musicClient := music.NewClient(cfg.MusicAPIBaseURL, rdb)
	personaClient := ai.NewPersonaClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, "")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, hashtagRepo)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, followRepo, likeRepo, savedPostRepo, repostRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifier)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, commentLikeRepo, notifier)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, userRepo, notifier)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Repost routes
	repostHandler := handlers.NewRepostHandler(repostRepo, postRepo, notifier)
	repostHandler.RegisterRepostRoutes(api)
	log.Println("Repost routes configured.")

	// Saved post routes
	savedPostHandler := handlers.NewSavedPostHandler(savedPostRepo, postRepo)
	savedPostHandler.RegisterSavedPostRoutes(api)
	log.Println("Saved post routes configured.")

	// Story routes
	storyHandler := handlers.NewStoryHandler(storyRepo, userRepo, notifier)
	storyHandler.RegisterStoryRoutes(api)
	log.Println("Story routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Direct message routes
	conversationHandler := handlers.NewConversationHandler(conversationRepo, messageRepo, userRepo, postRepo, hub, rdb)
	conversationHandler.RegisterConversationRoutes(api)
	log.Println("Conversation routes configured.")

	// Music proxy routes
	musicHandler := handlers.NewMusicHandler(musicClient)
	musicHandler.RegisterMusicRoutes(api)
	log.Println("Music proxy routes configured.")

	// Artist chat routes
	artistChatHandler := handlers.NewArtistChatHandler(personaClient, userRepo)
	artistChatHandler.RegisterArtistChatRoutes(api)
	log.Println("Artist chat routes configured.")

	// Websocket route
	wsHandler := handlers.NewWSHandler(hub)
	wsHandler.RegisterWSRoutes(api)
	log.Println("Websocket route configured.")

	log.Println("All routes configured.")
}
