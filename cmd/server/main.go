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

	"github.com/pagecart/bookstore/internal"
	"github.com/pagecart/bookstore/internal/bootstrap"
	"github.com/pagecart/bookstore/internal/events"
	"github.com/pagecart/bookstore/internal/handler"
	"github.com/pagecart/bookstore/internal/handler/api"
	"github.com/pagecart/bookstore/internal/handler/storefront"
	"github.com/pagecart/bookstore/internal/middleware"
	"github.com/pagecart/bookstore/internal/postgres"
	"github.com/pagecart/bookstore/internal/router"
	"github.com/pagecart/bookstore/internal/routes"
	"github.com/pagecart/bookstore/internal/service"
	"github.com/pagecart/bookstore/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
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

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	bookStore := postgres.NewCatalogStore(pool)
	sessionStore := postgres.NewSessionStore(pool)
	cartStore := postgres.NewCartStore(pool)
	orderStore := postgres.NewOrderStore(pool)
	userStore := postgres.NewUserStore(pool)
	reviewStore := postgres.NewReviewStore(pool)

	// Initialize order event publisher (optional)
	var publisher events.Publisher
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("NATS order events enabled", "url", cfg.NATS.URL)
	} else {
		publisher = events.NewNoopPublisher()
		logger.Info("NATS_URL not set, order events disabled")
	}

	// Initialize services
	catalogService := service.NewCatalogService(bookStore)
	cartService := service.NewCartService(cartStore, sessionStore, bookStore, cfg.SessionTTL)
	userService := service.NewUserService(userStore, sessionStore)
	orderService := service.NewOrderService(orderStore)
	reviewService := service.NewReviewService(reviewStore, bookStore)
	checkoutService := service.NewCheckoutService(orderStore, cartService, publisher, logger)

	// Create the initial admin user if configured
	adminCfg := &bootstrap.AdminConfig{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}
	if err := bootstrap.EnsureAdmin(ctx, userStore, adminCfg, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// Load templates with renderer
	logger.Info("Loading templates...")
	renderer, err := handler.NewRenderer(cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	logger.Info("Templates loaded successfully")

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	secureCookies := cfg.Env != "dev"
	resolver := storefront.NewCartResolver(cartService, cfg.SessionTTL, secureCookies)
	authRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer authRateLimiter.Stop()

	storefrontDeps := routes.StorefrontDeps{
		Home:       storefront.NewHomeHandler(catalogService, renderer),
		BookList:   storefront.NewBookListHandler(catalogService, renderer),
		BookDetail: storefront.NewBookDetailHandler(catalogService, reviewService, renderer),
		Review:     storefront.NewReviewSubmitHandler(reviewService),

		CartView:   storefront.NewCartViewHandler(cartService, resolver, renderer),
		CartAdd:    storefront.NewCartAddHandler(cartService, resolver),
		CartUpdate: storefront.NewCartUpdateHandler(cartService, resolver),
		CartRemove: storefront.NewCartRemoveHandler(cartService, resolver),
		CartClear:  storefront.NewCartClearHandler(cartService, resolver),

		Checkout:     storefront.NewCheckoutHandler(cartService, checkoutService, resolver, renderer),
		OrderSuccess: storefront.NewOrderSuccessHandler(orderService, renderer),
		OrderHistory: storefront.NewOrderHistoryHandler(orderService, renderer),

		Login:    storefront.NewLoginHandler(userService, resolver, renderer),
		Register: storefront.NewRegisterHandler(userService, renderer),
		Logout:   storefront.NewLogoutHandler(userService),

		LoginLimiter: authRateLimiter.Middleware,
	}

	apiDeps := routes.APIDeps{
		Auth:       api.NewAuthHandler(userService, cartService, cfg.SessionTTL, secureCookies),
		Books:      api.NewBookHandler(catalogService),
		Categories: api.NewCategoryHandler(catalogService),
		Cart:       api.NewCartHandler(cartService, cfg.SessionTTL, secureCookies),
		Checkout:   api.NewCheckoutHandler(cartService, checkoutService),
		Orders:     api.NewOrderHandler(orderService),
		Reviews:    api.NewReviewHandler(reviewService),
		Users:      api.NewUserHandler(userService),

		LoginLimiter: authRateLimiter.Middleware,
	}

	// ==========================================================================
	// Initialize middleware and routes
	// ==========================================================================

	metrics := middleware.NewMetrics("bookstore")

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		// Relax CSP in development for easier debugging
		securityConfig.ContentSecurityPolicy = ""
		securityConfig.HSTSMaxAge = 0
	}

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.WithUser(userService),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	// Static files
	r.Static("/static/", "./web/static")

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAPIRoutes(r, apiDeps)

	// ==========================================================================
	// Start background worker and server
	// ==========================================================================

	if cfg.Worker.Enabled {
		cleanupWorker := worker.NewWorker(sessionStore, worker.Config{
			PollInterval: cfg.Worker.PollInterval,
		}, logger)
		go func() {
			if err := cleanupWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("cleanup worker stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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
