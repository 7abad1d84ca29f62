package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings"
	"github.com/studio/backend/internal/domain/course"
	"github.com/studio/backend/internal/domain/courseapp"
	"github.com/studio/backend/internal/infrastructure/auth"
	"github.com/studio/backend/internal/infrastructure/cache"
	"github.com/studio/backend/internal/infrastructure/config"
	"github.com/studio/backend/internal/infrastructure/logger"
	"github.com/studio/backend/internal/infrastructure/persistence"
	"github.com/studio/backend/internal/infrastructure/worker"
	"github.com/studio/backend/internal/interfaces/http/handler"
	"github.com/studio/backend/internal/interfaces/http/middleware"
	"github.com/studio/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Studio Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with zap-backed GORM logging
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	courseStore := persistence.NewGormCourseStore(db.DB)
	appStatusRepo := persistence.NewGormAppStatusRepository(db.DB)
	teamRepo := persistence.NewGormCourseTeamRepository(db.DB)

	// Settings view cache (nil when disabled)
	viewCache, err := cache.NewViewCacheFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to create settings view cache", zap.Error(err))
	}
	if viewCache != nil {
		log.Info("Settings view cache enabled", zap.String("backend", cfg.Cache.Backend))
	}

	// Background follow-up worker for post-update side effects
	followups := worker.NewFollowupWorker(worker.FollowupWorkerConfig{
		QueueSize:       cfg.Followups.QueueSize,
		ShutdownTimeout: cfg.Followups.ShutdownTimeout,
	}, log, worker.WithChangeListener(worker.NewAuditLogListener(log)))

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	if cfg.Followups.Enabled {
		followups.Start(workerCtx)
		defer followups.Stop()
	}

	// JWT and course access control
	jwtService := auth.NewJWTService(cfg.JWT)
	authorizer := auth.NewCourseAuthorizer(courseStore, teamRepo, log)

	// Proctoring provider whitelist from config
	providers := make([]course.ProctoringProvider, 0, len(cfg.Proctoring.Providers))
	for _, p := range cfg.Proctoring.Providers {
		providers = append(providers, course.ProctoringProvider{
			Name:                    p.Name,
			RequiresEscalationEmail: p.RequiresEscalationEmail,
		})
	}

	features := settings.Features{
		EnablePublisher:              cfg.Features.EnablePublisher,
		DisableMobileCourseAvailable: cfg.Features.DisableMobileCourseAvailable,
	}

	// Initialize application services
	schema := course.DefaultSchema()
	appManager := courseapp.NewDefaultManager()

	settingsOpts := []settings.ServiceOption{}
	if viewCache != nil {
		settingsOpts = append(settingsOpts, settings.WithViewCache(viewCache))
	}
	if cfg.Followups.Enabled {
		settingsOpts = append(settingsOpts, settings.WithFollowups(followups))
	}

	settingsService := settings.NewService(
		courseStore, schema, appManager, appStatusRepo,
		providers, features, log, settingsOpts...,
	)
	proctoringService := settings.NewProctoringService(
		courseStore, schema, providers, cfg.Proctoring.AuthoringMFEURL, log,
	)
	courseService := settings.NewCourseService(courseStore, log,
		settings.WithTeamEnroller(teamRepo))

	// Gin engine with the middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Routes
	systemHandler := handler.NewSystemHandler(version)
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithHealthCheck(healthHandler(db)),
	)

	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	r.Register(handler.NewSettingsHandler(settingsService, authorizer, log)).
		Register(handler.NewProctoringHandler(proctoringService, authorizer, log)).
		Register(handler.NewCourseHandler(courseService, log)).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness including database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
