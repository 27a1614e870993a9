package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"triviaclash/internal/config"
	"triviaclash/internal/database"
	"triviaclash/internal/handlers"
	"triviaclash/internal/opentdb"
	"triviaclash/internal/quiz"
	"triviaclash/internal/repository"
	"triviaclash/internal/security"
	"triviaclash/internal/service"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	tokens := security.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, profileRepo, tokens, emailService)
	scoreService := service.NewScoreService(attemptRepo, profileRepo, cfg.LeaderboardMinQuestions)

	// Quiz sessions backed by the Open Trivia DB
	triviaClient := opentdb.NewClient(&http.Client{Timeout: 15 * time.Second}, cfg.TriviaBaseURL)
	manager := quiz.NewManager(quiz.NewSourceLoader(triviaClient), attemptRepo)

	// Initialize handlers
	limiter := security.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	middleware := handlers.NewMiddleware(authService, limiter)
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(manager)
	scoreHandler := handlers.NewScoreHandler(scoreService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Public routes
	mux.HandleFunc("POST /api/auth/signup", middleware.RateLimit(authHandler.Signup))
	mux.HandleFunc("POST /api/auth/signin", middleware.RateLimit(authHandler.Signin))
	mux.HandleFunc("GET /api/categories", quizHandler.Categories)
	mux.HandleFunc("GET /api/leaderboard", scoreHandler.Leaderboard)

	// Protected quiz routes
	mux.HandleFunc("GET /api/quiz", middleware.RequireAuth(quizHandler.State))
	mux.HandleFunc("POST /api/quiz/start", middleware.RequireAuth(quizHandler.Start))
	mux.HandleFunc("POST /api/quiz/answer", middleware.RequireAuth(quizHandler.Answer))
	mux.HandleFunc("POST /api/quiz/advance", middleware.RequireAuth(quizHandler.Advance))
	mux.HandleFunc("POST /api/quiz/play-again", middleware.RequireAuth(quizHandler.PlayAgain))
	mux.HandleFunc("POST /api/quiz/change-settings", middleware.RequireAuth(quizHandler.ChangeSettings))

	// Protected score routes
	mux.HandleFunc("GET /api/scores", middleware.RequireAuth(scoreHandler.Overview))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
