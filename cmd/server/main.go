// Command server runs the CRM HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcrm "github.com/crm/backend/internal/application/crm"
	appidentity "github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/ratelimit"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync(log) }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	// SQL statement logging only at debug level; it is far too chatty
	// for production
	var db *persistence.Database
	if cfg.Log.Level == "debug" {
		db, err = persistence.NewDatabaseWithLogger(&cfg.Database, gormlogger.Info)
	} else {
		db, err = persistence.NewDatabase(&cfg.Database)
	}
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		// Redis is optional at runtime: caching fails soft and limiting
		// fails open, so log and continue with an unverified client.
		log.Warn("Redis unreachable at startup, cache and rate limiting degraded", zap.Error(err))
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	defer func() { _ = redisClient.Close() }()
	appCache := cache.NewCache(redisClient, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	users := persistence.NewGormUserRepository(db.DB)
	companies := persistence.NewGormCompanyRepository(db.DB)
	contacts := persistence.NewGormContactRepository(db.DB)
	deals := persistence.NewGormDealRepository(db.DB)
	pipelines := persistence.NewGormPipelineRepository(db.DB)
	activities := persistence.NewGormActivityRepository(db.DB)
	tasks := persistence.NewGormTaskRepository(db.DB)
	notes := persistence.NewGormNoteRepository(db.DB)
	emails := persistence.NewGormEmailRepository(db.DB)
	notifications := persistence.NewGormNotificationRepository(db.DB)
	audits := persistence.NewGormAuditLogRepository(db.DB)
	reports := persistence.NewGormReportRepository(db.DB)
	integrations := persistence.NewGormIntegrationRepository(db.DB)

	authService := appidentity.NewAuthService(users, companies, persistence.NewGormRegistrar(db), jwtService, log)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(authService),
		Contact:      handler.NewContactHandler(appcrm.NewContactService(contacts, audits, appCache, cfg.Cache.ListTTL, log)),
		Deal:         handler.NewDealHandler(appcrm.NewDealService(deals, pipelines, notifications, audits, appCache, cfg.Cache.ListTTL, log)),
		Pipeline:     handler.NewPipelineHandler(appcrm.NewPipelineService(pipelines, audits, log)),
		Activity:     handler.NewActivityHandler(appcrm.NewActivityService(activities, audits, log)),
		Task:         handler.NewTaskHandler(appcrm.NewTaskService(tasks, notifications, audits, log)),
		Note:         handler.NewNoteHandler(appcrm.NewNoteService(notes, audits, log)),
		Email:        handler.NewEmailHandler(appcrm.NewEmailService(emails, audits, log)),
		Notification: handler.NewNotificationHandler(appcrm.NewNotificationService(notifications, log)),
		Audit:        handler.NewAuditHandler(appcrm.NewAuditService(audits, log)),
		Report:       handler.NewReportHandler(appcrm.NewReportService(reports, audits, log)),
		Integration:  handler.NewIntegrationHandler(appcrm.NewIntegrationService(integrations, audits, log)),
		Dashboard:    handler.NewDashboardHandler(appcrm.NewDashboardService(deals, contacts, tasks, appCache, cfg.Cache.DashboardTTL, log)),
		System:       handler.NewSystemHandler(db, redisClient),
	}
	limiters := router.Limiters{
		Global:  ratelimit.New(redisClient, log, "global", cfg.RateLimit.Global),
		Auth:    ratelimit.New(redisClient, log, "auth", cfg.RateLimit.Auth),
		API:     ratelimit.New(redisClient, log, "api", cfg.RateLimit.API),
		PerUser: ratelimit.New(redisClient, log, "user", cfg.RateLimit.PerUser),
	}

	engine := router.New(cfg, log, jwtService, handlers, limiters)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
	return nil
}
