package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salesbridge/salesbridge/config"
	"github.com/salesbridge/salesbridge/pkg/activities"
	"github.com/salesbridge/salesbridge/pkg/api/handlers"
	"github.com/salesbridge/salesbridge/pkg/apper"
	"github.com/salesbridge/salesbridge/pkg/cache"
	"github.com/salesbridge/salesbridge/pkg/companies"
	"github.com/salesbridge/salesbridge/pkg/contacts"
	"github.com/salesbridge/salesbridge/pkg/deals"
	"github.com/salesbridge/salesbridge/pkg/export"
	"github.com/salesbridge/salesbridge/pkg/jobs"
	"github.com/salesbridge/salesbridge/pkg/logger"
	"github.com/salesbridge/salesbridge/pkg/metrics"
	custommiddleware "github.com/salesbridge/salesbridge/pkg/middleware"
	"github.com/salesbridge/salesbridge/pkg/quotes"
)

func main() {
	// Load .env when present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	appLog := logger.New(cfg.LogLevel)
	appLog.Info("configuration loaded", "environment", cfg.APIEnvironment)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 1.0,
			AttachStacktrace: true,
		})
		if err != nil {
			appLog.Warn("failed to initialize sentry", "error", err)
		} else {
			appLog.Info("sentry initialized", "environment", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		appLog.Info("sentry disabled, no DSN configured")
	}

	// Redis cache
	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Prometheus metrics
	prometheusMetrics := metrics.New()
	redisClient.SetRecorder(prometheusMetrics)

	// Record store client, instrumented per table and operation
	apperClient := apper.NewClient(apper.Config{
		BaseURL:   cfg.ApperBaseURL,
		ProjectID: cfg.ApperProjectID,
		PublicKey: cfg.ApperPublicKey,
		Timeout:   time.Duration(cfg.ApperTimeoutMS) * time.Millisecond,
	})
	store := metrics.NewInstrumentedStore(apperClient, prometheusMetrics)

	// Services
	listTTL := time.Duration(cfg.ListCacheTTLSeconds) * time.Second
	contactsService := contacts.NewService(store, redisClient, appLog, listTTL)
	companiesService := companies.NewService(store, redisClient, appLog, listTTL)
	dealsService := deals.NewService(store, redisClient, appLog, listTTL)
	activitiesService := activities.NewService(store, redisClient, appLog, listTTL)
	quotesService := quotes.NewService(store, redisClient, appLog, listTTL)
	exportService := export.NewService(contactsService, companiesService, dealsService, activitiesService, quotesService)

	contactsService.SetPhoneRegion(cfg.DefaultPhoneRegion)
	contactsService.SetRecalculator(companiesService)
	dealsService.SetRecalculator(companiesService)

	// Echo
	e := echo.New()
	e.HideBanner = true

	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			appLog.Info("request", "method", c.Request().Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			// Repanic after capturing so the Recover middleware still handles it
			Repanic: true,
		}))
	}

	e.Use(prometheusMetrics.Middleware())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowCredentials: true,
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
		},
	}))

	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(globalRateLimiter.RateLimitMiddleware())

	// Health endpoints (public)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "SalesBridge API",
			"version":     "0.1.0",
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	e.GET("/health", func(c echo.Context) error {
		if err := redisClient.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"cache":  "down",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status": "healthy",
			"cache":  "up",
		})
	})

	// Prometheus metrics endpoint (public)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Handlers
	contactHandler := handlers.NewContactHandler(contactsService, prometheusMetrics)
	companyHandler := handlers.NewCompanyHandler(companiesService, prometheusMetrics)
	dealHandler := handlers.NewDealHandler(dealsService, prometheusMetrics)
	activityHandler := handlers.NewActivityHandler(activitiesService, prometheusMetrics)
	quoteHandler := handlers.NewQuoteHandler(quotesService, prometheusMetrics)
	exportHandler := handlers.NewExportHandler(exportService, prometheusMetrics)

	// API v1 routes
	v1 := e.Group("/api/v1")

	contactRoutes := v1.Group("/contacts")
	{
		contactRoutes.GET("", contactHandler.List)
		contactRoutes.GET("/:id", contactHandler.Get)
		contactRoutes.POST("", contactHandler.Create)
		contactRoutes.PUT("/:id", contactHandler.Update)
		contactRoutes.DELETE("/:id", contactHandler.Delete)
	}

	companyRoutes := v1.Group("/companies")
	{
		companyRoutes.GET("", companyHandler.List)
		companyRoutes.GET("/:id", companyHandler.Get)
		companyRoutes.POST("", companyHandler.Create)
		companyRoutes.PUT("/:id", companyHandler.Update)
		companyRoutes.DELETE("/:id", companyHandler.Delete)
		companyRoutes.POST("/:id/recalculate", companyHandler.Recalculate)
	}

	dealRoutes := v1.Group("/deals")
	{
		dealRoutes.GET("", dealHandler.List)
		dealRoutes.GET("/pipeline/stats", dealHandler.PipelineStats) // Must be before /:id to avoid route conflict
		dealRoutes.GET("/stage/:stage", dealHandler.ListByStage)
		dealRoutes.GET("/:id", dealHandler.Get)
		dealRoutes.POST("", dealHandler.Create)
		dealRoutes.PUT("/:id", dealHandler.Update)
		dealRoutes.PATCH("/:id/status", dealHandler.UpdateStatus)
		dealRoutes.DELETE("/:id", dealHandler.Delete)
	}

	activityRoutes := v1.Group("/activities")
	{
		activityRoutes.GET("", activityHandler.List)
		activityRoutes.GET("/tasks", activityHandler.Tasks)
		activityRoutes.GET("/history", activityHandler.History)
		activityRoutes.GET("/overdue", activityHandler.Overdue)
		activityRoutes.GET("/contact/:id", activityHandler.ByContact)
		activityRoutes.GET("/deal/:id", activityHandler.ByDeal)
		activityRoutes.GET("/:id", activityHandler.Get)
		activityRoutes.POST("", activityHandler.Create)
		activityRoutes.PUT("/:id", activityHandler.Update)
		activityRoutes.POST("/:id/complete", activityHandler.Complete)
		activityRoutes.DELETE("/:id", activityHandler.Delete)
	}

	quoteRoutes := v1.Group("/quotes")
	{
		quoteRoutes.GET("", quoteHandler.List)
		quoteRoutes.GET("/:id", quoteHandler.Get)
		quoteRoutes.POST("", quoteHandler.Create)
		quoteRoutes.PUT("/:id", quoteHandler.Update)
		quoteRoutes.DELETE("/:id", quoteHandler.Delete)
	}

	v1.GET("/export/:entity", exportHandler.Download)

	// Nightly company aggregate refresh
	var cronManager *jobs.CronManager
	if cfg.MetricsRefreshEnabled {
		cronManager = jobs.NewCronManager(companiesService, prometheusMetrics, appLog, cfg.MetricsRefreshCron)
		if err := cronManager.SetupJobs(); err != nil {
			log.Fatalf("failed to set up cron jobs: %v", err)
		}
		cronManager.Start()
	} else {
		appLog.Info("metrics refresh job disabled")
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	appLog.Info("starting server",
		"address", address,
		"rate_limit_per_minute", cfg.RateLimitRequestsPerMinute,
		"rate_limit_burst", cfg.RateLimitBurst,
		"list_cache_ttl_seconds", cfg.ListCacheTTLSeconds,
	)

	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down server")

	if cronManager != nil {
		cronManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	appLog.Info("server stopped")
}
