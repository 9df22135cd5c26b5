package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/config"
	"github.com/babahheri21/cleanura-salesight-pro/internal/database"
	"github.com/babahheri21/cleanura-salesight-pro/internal/logger"
	"github.com/babahheri21/cleanura-salesight-pro/internal/server"
	"github.com/babahheri21/cleanura-salesight-pro/internal/session"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store/memory"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store/postgres"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// Give in-flight requests 30 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func main() {
	// .env is optional; viper also reads the process environment.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting SaleSight back-office API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	// Select the store backend: postgres when DATABASE_URL is set,
	// otherwise the seeded in-memory store.
	var st store.Store
	if cfg.Database.URL != "" {
		pgStore, err := postgres.New(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal("Failed to connect to postgres", zap.Error(err))
		}
		if err := database.RunMigrations(pgStore.DB(), "migrations", log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		log.Info("Using postgres store")
		st = pgStore
	} else {
		log.Info("Using seeded in-memory store")
		st = memory.NewSeeded()
	}

	// Redis backs the persisted session slot and login rate limiting.
	// Without it the slot lives in process memory.
	var redisClient *redis.Client
	var slot session.Slot = session.NewMemorySlot()
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		slot = session.NewRedisSlot(redisClient, cfg.Session.Key)
	}

	sessions := session.NewManager(st, slot, cfg.JWT.Secret, time.Duration(cfg.JWT.AccessExpiry)*time.Minute)

	// Restore the persisted session before serving the first request.
	if user, err := sessions.Rehydrate(ctx); err != nil {
		log.Warn("Failed to rehydrate session", zap.Error(err))
	} else if user != nil {
		log.Info("Session rehydrated", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	}

	srv := server.NewServer(cfg, log, st, sessions, redisClient)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
