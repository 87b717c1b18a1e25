package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/doggy-date/internal/api"
	"github.com/Rrens/doggy-date/internal/config"
	"github.com/Rrens/doggy-date/internal/logging"
	"github.com/Rrens/doggy-date/internal/notify"
	"github.com/Rrens/doggy-date/internal/remote"
	"github.com/Rrens/doggy-date/internal/repository/redis"
	"github.com/Rrens/doggy-date/internal/screen"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		fmt.Println("Warning: .env file not found in any standard location")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCloser, err := logging.Setup(cfg.Logging, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("graphql", cfg.GraphQL.Endpoint).
		Msg("Starting Doggy Date screen server")

	client := remote.NewClient(cfg.GraphQL.Endpoint, remote.WithTimeout(cfg.GraphQL.Timeout))
	alerts := notify.NewRecorder()
	scr := screen.NewRemote(client, alerts)
	defer scr.Close()

	deps := api.Dependencies{
		Screen: scr,
		Alerts: alerts,
		Emails: client,
	}

	// Redis backs the submit rate limiter and is optional
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		deps.Redis = redisClient
		deps.Limiter = redis.NewRateLimiter(redisClient,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		)
	}

	// Initialize router
	router := api.NewRouter(cfg, deps)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// websocket streams are hijacked and not tracked by Shutdown
	scr.Close()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
