package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bluecarbon/verification-portal/internal/auth"
	"bluecarbon/verification-portal/internal/certificates"
	"bluecarbon/verification-portal/internal/config"
	"bluecarbon/verification-portal/internal/dashboard"
	"bluecarbon/verification-portal/internal/profiles"
	"bluecarbon/verification-portal/internal/verification"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Security.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be configured")
	}

	// Connect to database
	dbURL := cfg.Database.GetDatabaseURL()
	sqlDB, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// GORM shares the same connection pool
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to initialize ORM", zap.Error(err))
	}

	// Wire repositories and services
	certRepo := certificates.NewPostgresRepository(gormDB, sqlDB)
	certService := certificates.NewService(certRepo, logger)
	certHandler := certificates.NewHandler(certService, logger)

	verificationRepo := verification.NewPostgresRepository(gormDB, sqlDB)
	verificationService := verification.NewService(verificationRepo, certService, logger)
	verificationHandler := verification.NewHandler(verificationService, logger)

	sessions := dashboard.NewSessionStore()
	dashboardService := dashboard.NewService(verificationService, certService, sessions, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)

	profileRepo := profiles.NewGormRepository(gormDB)
	authMiddleware := auth.NewMiddleware(cfg.Security.JWTSecret, profileRepo)

	// Certificate reconciler backfills missing auto-certificates
	reconciler := certificates.NewReconciler(certService, certRepo, logger)
	if cfg.Reconciler.Enabled {
		if err := reconciler.Start(cfg.Reconciler.Schedule); err != nil {
			logger.Fatal("Failed to start certificate reconciler", zap.Error(err))
		}
		defer reconciler.Stop()
	}

	// Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Register Routes
	api := router.Group("/api/v1")
	api.Use(authMiddleware.RequireAuth())

	reviewer := api.Group("")
	reviewer.Use(authMiddleware.RequireReviewer())
	{
		verificationHandler.RegisterRoutes(reviewer)
		dashboardHandler.RegisterRoutes(reviewer)
	}
	certHandler.RegisterRoutes(reviewer, api)

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %s\n", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", zap.Error(err))
	}

	logger.Info("Server exiting")
}
