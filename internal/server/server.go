package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/config"
	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	custommiddleware "github.com/babahheri21/cleanura-salesight-pro/internal/middleware"
	"github.com/babahheri21/cleanura-salesight-pro/internal/session"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"
	"github.com/babahheri21/cleanura-salesight-pro/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  store.Store
}

// NewServer wires the router. redisClient may be nil; login rate limiting
// is then disabled (everything else works without Redis).
func NewServer(cfg *config.Config, logger *zap.Logger, st store.Store, sessions *session.Manager, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	requireGuest := custommiddleware.RequireRole(domain.RoleGuest, logger)
	requireUser := custommiddleware.RequireRole(domain.RoleUser, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)

	var loginRateLimit func(http.Handler) http.Handler
	if redisClient != nil {
		loginRateLimit = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 10,
			Window:            time.Minute,
			KeyPrefix:         "salesight:ratelimit:login",
		}, logger)
	}

	transport.NewAuthHandler(sessions, logger).RegisterRoutes(router, authMiddleware, loginRateLimit)
	transport.NewProductHandler(st, logger).RegisterRoutes(router, authMiddleware, requireUser)
	transport.NewCustomerHandler(st, logger).RegisterRoutes(router, authMiddleware, requireUser)
	transport.NewSaleHandler(st, logger).RegisterRoutes(router, authMiddleware, requireUser)
	transport.NewExpenseHandler(st, logger).RegisterRoutes(router, authMiddleware, requireUser)
	transport.NewUserHandler(st, logger).RegisterRoutes(router, authMiddleware, requireAdmin)
	transport.NewReportHandler(st, logger).RegisterRoutes(router, authMiddleware, requireGuest, requireAdmin)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  st,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error("Failed to close store", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
