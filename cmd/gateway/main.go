package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"payment-gateway/internal/adapters/bank"
	httphandler "payment-gateway/internal/adapters/http"
	"payment-gateway/internal/adapters/messaging/kafka"
	eventmock "payment-gateway/internal/adapters/messaging/mock"
	"payment-gateway/internal/adapters/storage/memstore"
	"payment-gateway/internal/adapters/storage/redisstore"
	"payment-gateway/internal/app"
	"payment-gateway/internal/config"
	"payment-gateway/internal/core/ports"
	"payment-gateway/internal/observability"
)

func main() {
	// --- 1. Configuration and Logging ---
	fallbackLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fallbackLogger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg.App.Env)
	logger.Info("Application starting", "env", cfg.App.Env, "port", cfg.Server.Port)

	// --- 2. Observability ---
	if cfg.Tracing.Enabled {
		shutdownTracer, err := observability.InitTracer(cfg.Tracing.OTLPEndpoint, "payment-gateway")
		if err != nil {
			logger.Error("Failed to initialize tracing", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				logger.Warn("Failed to shutdown tracer", "error", err)
			}
		}()
	}

	// --- 3. Storage ---
	var repo ports.PaymentRepository
	var rateLimiter ports.RateLimiterRepository

	switch cfg.Storage.Backend {
	case config.StorageRedis:
		rdb, err := redisstore.NewClient(cfg.Redis.Addr)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("Failed to close Redis client", "error", err)
			}
		}()
		repo = redisstore.NewRepository(rdb, cfg.RetentionTTL())
		rateLimiter = redisstore.NewRateLimiter(rdb)
		logger.Info("Connected to Redis", "addr", cfg.Redis.Addr)
	default:
		store := memstore.NewRepository(cfg.RetentionTTL())
		defer store.Close()
		repo = store
		logger.Info("Using in-memory payment store", "retention", cfg.RetentionTTL())
	}

	// --- 4. Outbound dependencies ---
	bankClient := bank.NewClient(cfg.Bank.URL, cfg.BankTimeout(), logger)

	var publisher ports.EventPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := kafka.NewPublisher(strings.Split(cfg.Kafka.BootstrapServers, ","), cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Error("Failed to create Kafka publisher", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Kafka publisher created", "topic", cfg.Kafka.Topic)
	} else {
		publisher = eventmock.NewPublisher(logger)
	}

	// --- 5. Service Layer ---
	paymentService := app.NewPaymentService(repo, bankClient, publisher, logger)
	paymentHandler := httphandler.NewPaymentHandler(paymentService, logger)

	// --- 6. HTTP Router ---
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
	)
	if rateLimiter != nil {
		limiterMiddleware := httphandler.NewRateLimiterMiddleware(rateLimiter, cfg.RateLimit.Limit, cfg.RateLimitWindow(), logger)
		r.Use(limiterMiddleware.Handler)
	}
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		observability.NewLoggerMiddleware(logger),
		observability.NewMetricsMiddleware("payment-gateway"),
		observability.NewTracingMiddleware("payment-gateway"),
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "payment-gateway",
		}); err != nil {
			logger.Error("Failed to write health response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/payments", paymentHandler.HandleSubmitPayment)
		r.Get("/payments/{id}", paymentHandler.HandleGetPayment)
	})

	// --- 7. HTTP Server ---
	serverAddr := cfg.Server.Port
	if serverAddr == "" {
		serverAddr = ":8090"
	}

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exited properly")
}
