package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/barelands/server/internal/config"
	"github.com/barelands/server/internal/handlers"
	"github.com/barelands/server/internal/middleware"
	"github.com/barelands/server/internal/observability"
	"github.com/barelands/server/internal/repository"
	"github.com/barelands/server/internal/services"
)

// @title Barelands Portfolio API
// @version 1.0
// @description Catalog, asset, and inquiry API behind the Barelands landscape photography site.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.GetLogger()

	// Initialize telemetry (no-op unless OTEL_ENABLED is set)
	telemetry, err := observability.Initialize(context.Background(), observability.NewConfig("barelands-server", "1.0.0"))
	if err != nil {
		logger.Warnf("Telemetry initialization failed: %v", err)
	}
	if telemetry != nil {
		defer telemetry.Shutdown(context.Background())
	}

	httpMetrics, err := observability.NewHTTPMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize HTTP metrics: %v", err)
	}

	// Inquiry archive
	db, err := repository.NewSQLiteDB(cfg.InquiryDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize inquiry database: %v", err)
	}
	defer db.Close()
	inquiryRepo := repository.NewInquiryRepository(db)

	// Catalog document store, seeded with the launch portfolio on first run
	catalogStore := repository.NewCatalogStore(cfg.CatalogPath)
	if err := catalogStore.SeedIfEmpty(context.Background(), repository.DefaultPhotos()); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	// Services
	assetService, err := services.NewAssetService(
		cfg.AssetStorage.PublicDir,
		cfg.AssetStorage.UploadPrefix,
		cfg.AssetStorage.AllowedExtensions,
		cfg.AssetStorage.MaxFileSizeMB,
	)
	if err != nil {
		log.Fatalf("Failed to initialize asset service: %v", err)
	}

	var revalidator services.Revalidator = services.NopRevalidator{}
	if cfg.Revalidate.FrontendBaseURL != "" {
		revalidator = services.NewHTTPRevalidator(
			cfg.Revalidate.FrontendBaseURL,
			cfg.Revalidate.Secret,
			time.Duration(cfg.Revalidate.TimeoutSeconds)*time.Second,
		)
	}

	exifService := services.NewEXIFService()
	syncService := services.NewSyncService(catalogStore, assetService, revalidator, cfg.Revalidate.Paths)
	mailService := services.NewMailService(cfg.Mail)
	authService := services.NewAuthService(cfg.Admin.Email, cfg.Admin.PasswordHash, cfg.Admin.SessionHours)
	defer authService.Close()

	// Handlers
	photoHandler := handlers.NewPhotoHandler(catalogStore, assetService, exifService, syncService)
	contactHandler := handlers.NewContactHandler(inquiryRepo, mailService)
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.TracingMiddleware("barelands-server"))
	r.Use(observability.MetricsMiddleware(httpMetrics))

	// Routes
	r.Get("/health", healthHandler.Health)
	r.Get("/api/health", healthHandler.Health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)
	})

	r.Route("/api/photos", func(r chi.Router) {
		r.Get("/", photoHandler.List)
		r.Get("/sync", photoHandler.Sync)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(authService))
			r.Post("/upload", photoHandler.Upload)
			r.Post("/update", photoHandler.Update)
			r.Post("/delete", photoHandler.Delete)
			r.Post("/feature", photoHandler.Feature)
		})
	})

	r.Post("/api/contact", contactHandler.Submit)
	r.With(middleware.AdminAuth(authService)).Get("/api/inquiries", contactHandler.List)

	// Managed asset namespace, served straight from disk
	uploadsDir := http.Dir(assetService.PublicDir())
	r.Handle("/uploads/*", http.FileServer(uploadsDir))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Create server
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Longer for uploads
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Barelands server starting on %s", cfg.ServerAddress)
		logger.Infof("Catalog document: %s", cfg.CatalogPath)
		logger.Infof("Public asset dir: %s", assetService.PublicDir())

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
