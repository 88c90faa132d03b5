package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sql_arena/internal/api"
	"sql_arena/internal/app/service"
	"sql_arena/internal/common/security"
	"sql_arena/internal/domain/repository"
	"sql_arena/internal/platform/cache"
	"sql_arena/internal/platform/config"
	"sql_arena/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	communityRepo := repository.NewPgCommunityRepository(database.DB)

	// 6. Seed the starter problem set
	if config.AppConfig.SeedProblems {
		if err := database.SeedProblems(context.Background(), problemRepo); err != nil {
			log.Fatalf("Problem seeding failed: %v", err)
		}
	}

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo)
	problemService := service.NewProblemService(problemRepo)
	leaderboardService := service.NewLeaderboardService(userRepo, cache.RDB, config.AppConfig.LeaderboardCacheTTL)
	submissionService := service.NewSubmissionService(submissionRepo, problemRepo, userRepo, leaderboardService)
	communityService := service.NewCommunityService(communityRepo)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, problemService, submissionService, leaderboardService, communityService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
