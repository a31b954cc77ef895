package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizarena/internal/cache"
	"quizarena/internal/config"
	"quizarena/internal/repository"
	"quizarena/internal/service"
	"quizarena/internal/transport/rest"
	"quizarena/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Marvel Quiz Arena API
// @version 1.0
// @description AI-generated MCU trivia quizzes with leaderboards and an easter-egg finder
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Quiz Gen: %s", aiConfig.Models.QuizGen)
	log.Printf("  Egg Text: %s", aiConfig.Models.EggText)
	log.Printf("  TTS:      %s", aiConfig.Models.TTS)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:  configured ✓")
	} else {
		log.Println("  API Key:  NOT SET (generation requests will fail)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	quizRepo := repository.NewQuizRepo(db)
	userRepo := repository.NewUserRepo(db)
	playRepo := repository.NewPlayRepo(db)

	// Initialize caches
	leaderboard := cache.NewLeaderboardCache(rdb)
	quizCache := cache.NewQuizCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(userRepo)
	generator := service.NewGeneratorService()
	quizSvc := service.NewQuizService(quizRepo, userRepo, generator, quizCache)
	scoreSvc := service.NewScoreService(userRepo, playRepo, leaderboard)
	userSvc := service.NewUserService(userRepo, playRepo, quizRepo, leaderboard)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	scoreSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:  authSvc,
		QuizService:  quizSvc,
		ScoreService: scoreSvc,
		UserService:  userSvc,
		Generator:    generator,
		WSHub:        wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/register")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/auth/guest")
		log.Println("  POST /v1/quizzes/generate")
		log.Println("  GET  /v1/quizzes/{quizId}")
		log.Println("  POST /v1/scores")
		log.Println("  GET  /v1/leaderboard")
		log.Println("  GET  /v1/quizzes/{quizId}/leaderboard")
		log.Println("  GET  /v1/users/me")
		log.Println("  GET  /v1/users/me/history")
		log.Println("  POST /v1/egg")
		log.Println("  WS   /v1/ws/leaderboard")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
