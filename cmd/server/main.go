package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hallgrim/vanir/internal"
	"github.com/hallgrim/vanir/internal/billing"
	"github.com/hallgrim/vanir/internal/events"
	"github.com/hallgrim/vanir/internal/middleware"
	"github.com/hallgrim/vanir/internal/repository"
	"github.com/hallgrim/vanir/internal/routes"
	"github.com/hallgrim/vanir/internal/service"
	"github.com/hallgrim/vanir/internal/shipping"
	"github.com/hallgrim/vanir/internal/storage"
	"github.com/hallgrim/vanir/internal/tax"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application queries
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	repo := repository.New(pool)

	// Initialize product image storage
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "provider", cfg.Storage.Provider)

	// Initialize the catalog event publisher
	var publisher events.Publisher
	if cfg.Events.NatsURL != "" {
		natsPublisher, err := events.NewNatsPublisher(cfg.Events.NatsURL)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("NATS event publisher initialized", "url", cfg.Events.NatsURL)
	} else {
		publisher = events.NewNoopPublisher()
		logger.Info("Event publishing disabled (NATS_URL not set)")
	}

	// Initialize Stripe billing provider
	billingProvider, err := billing.NewStripeProvider(cfg.Stripe.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to initialize Stripe provider: %w", err)
	}
	logger.Info("Stripe billing provider initialized")

	// Initialize pricing calculators
	taxCalculator := tax.NewPercentageCalculator(cfg.Checkout.TaxRate)
	shippingCalculator := shipping.NewFlatRateCalculator(cfg.Checkout.ShippingFlatCents)

	// Initialize services
	userService := service.NewUserService(repo, logger)
	sessionService := service.NewSessionService(repo)
	cartService := service.NewCartService(repo, cfg.Checkout.MergePolicy, logger)
	checkoutService := service.NewCheckoutService(repo, billingProvider, taxCalculator, shippingCalculator)
	orderService := service.NewOrderService(repo, billingProvider, publisher, logger)
	productService := service.NewProductService(repo, store, publisher, logger)
	categoryService := service.NewCategoryService(repo, publisher, logger)

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("vanir")

	handler := routes.New(routes.Deps{
		Config:     cfg,
		Logger:     logger,
		Metrics:    metrics,
		Users:      userService,
		Sessions:   sessionService,
		Carts:      cartService,
		Checkout:   checkoutService,
		Orders:     orderService,
		Products:   productService,
		Categories: categoryService,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("Server stopped")

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
