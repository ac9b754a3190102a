package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BradenHooton/storefront/internal/auth"
	"github.com/BradenHooton/storefront/internal/background"
	"github.com/BradenHooton/storefront/internal/config"
	"github.com/BradenHooton/storefront/internal/database"
	"github.com/BradenHooton/storefront/internal/handlers"
	middlewareCustom "github.com/BradenHooton/storefront/internal/middleware"
	"github.com/BradenHooton/storefront/internal/repositories"
	"github.com/BradenHooton/storefront/internal/routes"
	"github.com/BradenHooton/storefront/internal/services"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	pkglogger "github.com/BradenHooton/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger := newLogger(cfg.Server.LogLevel)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStart()

	if migrateOnStart {
		if err := db.Migrate(startCtx); err != nil {
			return err
		}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	productCategoryRepo := repositories.NewProductCategoryRepository(db)
	blogCategoryRepo := repositories.NewBlogCategoryRepository(db)
	brandRepo := repositories.NewBrandRepository(db)
	couponRepo := repositories.NewCouponRepository(db)
	blogRepo := repositories.NewBlogRepository(db)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	mailer, err := newMailer(startCtx, cfg, logger)
	if err != nil {
		return err
	}
	images, err := newImageStore(startCtx, cfg, logger)
	if err != nil {
		return err
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenManager, mailer, logger, auditLogger, services.AuthOptions{
		ResetTTL:     cfg.Auth.ResetTokenExpiry,
		ResetURLBase: cfg.Email.ResetURLBase,
		FailureFloor: auth.FailureFloor{Min: 250 * time.Millisecond, Jitter: 100 * time.Millisecond},
	})
	userService := services.NewUserService(userRepo, productRepo, logger, auditLogger)
	productService := services.NewProductService(productRepo, images, logger)
	productCategoryService := services.NewProductCategoryService(productCategoryRepo, logger)
	blogCategoryService := services.NewBlogCategoryService(blogCategoryRepo, logger)
	brandService := services.NewBrandService(brandRepo, logger)
	couponService := services.NewCouponService(couponRepo, logger)
	blogService := services.NewBlogService(blogRepo, images, logger)

	// Bootstrap first admin user if configured
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if _, err := authService.EnsureAdmin(startCtx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Error("failed to ensure admin user", slog.Any("error", err))
		}
	} else {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin user creation")
	}

	cookies := auth.CookieConfig{
		Domain:   cfg.Auth.CookieDomain,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: "strict",
		MaxAge:   cfg.Auth.SessionTokenExpiry,
	}
	proxies := pkghttp.ParseTrustedProxies(cfg.Server.TrustedProxies)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, proxies))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, routes.Handlers{
		Auth:            handlers.NewAuthHandler(authService, cookies, proxies),
		Users:           handlers.NewUserHandler(userService, proxies),
		Products:        handlers.NewProductHandler(productService, userService),
		ProductCategory: handlers.NewProductCategoryHandler(productCategoryService),
		BlogCategory:    handlers.NewBlogCategoryHandler(blogCategoryService),
		Brands:          handlers.NewBrandHandler(brandService),
		Coupons:         handlers.NewCouponHandler(couponService),
		Blogs:           handlers.NewBlogHandler(blogService),
	}, auth.Authenticate(tokenManager, userRepo, cookies, logger), proxies)

	router.Get("/health", handlers.Health(db))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupManager := background.NewCleanupManager(userRepo, logger, cfg.Auth.ResetCleanupInterval)
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go cleanupManager.Start(cleanupCtx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}

func newMailer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.EmailService, error) {
	if !cfg.Email.Enabled {
		logger.Warn("email delivery disabled, password reset emails will not be sent")
		return services.NewLogEmailService(logger), nil
	}
	mailer, err := services.NewAWSSESEmailService(ctx, cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize email service: %w", err)
	}
	return mailer, nil
}

func newImageStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.ImageStore, error) {
	if !cfg.Storage.Enabled {
		logger.Warn("image storage disabled, uploads will be rejected")
		return services.DisabledImageStore{}, nil
	}
	store, err := services.NewS3ImageStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize image storage: %w", err)
	}
	return store, nil
}
