// File: coursecal/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursecal/config"
	"coursecal/handlers"
	"coursecal/models"
	"coursecal/routes"
	"coursecal/services/calendar"
	"coursecal/services/calsync"
	ai "coursecal/services/intelligence"
	"coursecal/services/schedule"
	"coursecal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := utils.NewRedisClient(utils.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisCacheDB,
	})
	if err != nil {
		// The cache is optional; extraction still works without it.
		logger.Warn("main: extraction cache disabled", zap.Error(err))
	}

	var cache ai.ExtractionCache
	if redisClient != nil {
		cache = ai.NewRedisExtractionCache(redisClient, cfg.ExtractionCacheTTL)
		defer redisClient.Close()
	}

	ctx := context.Background()
	extractor, closeExtractor, err := ai.NewExtractor(ctx, ai.ExtractorConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.ExtractionTimeout,
	}, cache, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize extraction gateway: %v", err)
	}
	defer closeExtractor()

	compiler, err := schedule.NewCompiler(schedule.CompilerConfig{TimeZone: cfg.TimeZone})
	if err != nil {
		logger.Sugar().Fatalf("main: invalid TIME_ZONE %q: %v", cfg.TimeZone, err)
	}

	calendarService := calendar.NewGoogleService(cfg.CalendarEndpoint, logger)
	orchestrator := calsync.NewOrchestrator(compiler, calendarService, calsync.Config{
		CalendarID:    cfg.CalendarID,
		Concurrency:   cfg.SyncConcurrency,
		InsertTimeout: cfg.CalendarInsertTimeout,
		MaxCourses:    cfg.SyncMaxCourses,
	}, logger)

	extractionMode := models.SourceLive
	if cfg.GeminiAPIKey == "" {
		extractionMode = models.SourceSample
	}
	monitor := utils.NewHealthMonitor(redisClient, extractionMode)
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	monitor.Start(monitorCtx, 30*time.Second)

	scheduleHandler := handlers.NewScheduleHandler(extractor)
	calendarHandler := handlers.NewCalendarHandler(orchestrator)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ParseScheduleHandler:  scheduleHandler.ParseScheduleHandler,
		AddToCalendarHandler:  calendarHandler.AddToCalendarHandler,
		ExportCalendarHandler: calendarHandler.ExportCalendarHandler,
		HealthHandler:         handlers.HealthHandler(monitor),
	}

	router := routes.NewRouter(cfg, handlerBundle, logger)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s (timezone %s, extraction %s)...", srv.Addr, compiler.TimeZone(), extractionMode)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
