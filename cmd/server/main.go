package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/zarinagems/storefront-api/internal/catalog"
	"github.com/zarinagems/storefront-api/internal/config"
	"github.com/zarinagems/storefront-api/internal/delivery"
	"github.com/zarinagems/storefront-api/internal/handlers"
	"github.com/zarinagems/storefront-api/internal/middleware"
	"github.com/zarinagems/storefront-api/internal/notify"
	"github.com/zarinagems/storefront-api/internal/ratelimit"
	"github.com/zarinagems/storefront-api/internal/repository"
	"github.com/zarinagems/storefront-api/internal/service"
	"github.com/zarinagems/storefront-api/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting jewellery storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories: MySQL when configured, in-memory otherwise
	var (
		productRepo repository.ProductRepository
		orderRepo   repository.OrderRepository
		contactRepo repository.ContactRepository
	)
	if cfg.Database.Host != "" {
		db, err := repository.OpenMySQL(ctx, cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		productRepo = repository.NewMySQLProductRepository(db)
		orderRepo = repository.NewMySQLOrderRepository(db)
		contactRepo = repository.NewMySQLContactRepository(db)
		log.Info("using mysql repositories", "host", cfg.Database.Host, "database", cfg.Database.Name)
	} else {
		productRepo = repository.NewInMemoryProductRepository()
		orderRepo = repository.NewInMemoryOrderRepository()
		contactRepo = repository.NewInMemoryContactRepository()
		log.Info("using in-memory repositories")
	}

	// Seed the catalog filter with the known product ids
	var filter *catalog.Filter
	if ids, err := productRepo.AllIDs(ctx); err != nil {
		log.Warn("failed to load catalog ids, continuing without filter", "error", err)
	} else {
		filter = catalog.NewFilter(ids)
		log.Info("catalog filter loaded", "product_count", len(ids))
	}

	// Rate limiting: Redis-backed when configured, in-memory otherwise
	sweepInterval := time.Duration(cfg.RateLimit.SweepInterval) * time.Second
	var newStore func(prefix string) ratelimit.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		newStore = func(prefix string) ratelimit.Store {
			return ratelimit.NewRedisStore(rdb, prefix)
		}
		log.Info("using redis rate limit store", "addr", cfg.Redis.Addr)
	} else {
		newStore = func(prefix string) ratelimit.Store {
			store := ratelimit.NewMemoryStore()
			go store.Run(ctx, sweepInterval)
			return store
		}
	}
	notifyLimiter := ratelimit.New(newStore("rl:notify"), policy(cfg.RateLimit.Notify))
	contactLimiter := ratelimit.New(newStore("rl:contact"), policy(cfg.RateLimit.Contact))
	trackingLimiter := ratelimit.New(newStore("rl:tracking"), policy(cfg.RateLimit.Tracking))

	// Notification broker
	var notifier notify.OrderNotifier
	if cfg.AMQP.URL != "" {
		publisher, err := notify.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			log.Error("failed to connect to notification broker", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		notifier = publisher
		log.Info("notification broker connected", "exchange", cfg.AMQP.Exchange)
	} else {
		log.Warn("no AMQP_URL configured, order notifications disabled")
	}

	// Delivery tracking
	estimator := delivery.NewEstimator(cfg.Delivery.RoadFactor)
	proximity := delivery.NewProximityNotifier(
		cfg.Delivery.NearbyThresholdKm,
		cfg.Delivery.ArrivedThresholdKm,
		time.Duration(cfg.Delivery.MinNotifyInterval)*time.Second,
	)

	// Initialize services
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(productRepo, orderRepo, filter)
	contactService := service.NewContactService(contactRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(productService, log)
	orderHandler := handlers.NewOrderHandler(orderService, notifier, log)
	trackingHandler := handlers.NewTrackingHandler(orderService, estimator, proximity, notifier, log)
	contactHandler := handlers.NewContactHandler(contactService, log)
	adminHandler := handlers.NewAdminHandler(orderService, notifier, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check and metrics endpoints
	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{productID}", productHandler.GetProduct)

		// Order intake
		r.Post("/orders", orderHandler.CreateOrder)

		// Rate-limited endpoints, each with its own policy
		r.With(middleware.RateLimit(trackingLimiter, log)).
			Get("/orders/track/{orderID}", trackingHandler.Track)
		r.With(middleware.RateLimit(notifyLimiter, log)).
			Post("/orders/{orderID}/notify", orderHandler.NotifyOrder)
		r.With(middleware.RateLimit(contactLimiter, log)).
			Post("/contact", contactHandler.Submit)

		// Admin back office
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
			r.Get("/orders", adminHandler.ListOrders)
			r.Put("/orders/{orderID}/status", adminHandler.UpdateOrderStatus)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Stop the rate limit sweeps
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

func policy(p config.PolicyConfig) ratelimit.Policy {
	return ratelimit.Policy{
		Limit:  p.Limit,
		Window: time.Duration(p.WindowSeconds) * time.Second,
	}
}
