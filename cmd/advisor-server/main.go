package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"relocation-advisor/internal/api"
	"relocation-advisor/internal/common/aws"
	"relocation-advisor/internal/common/config"
	"relocation-advisor/internal/common/database"
	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/common/observability"
	"relocation-advisor/internal/engine/categorization"
	"relocation-advisor/internal/engine/gateway"
	"relocation-advisor/internal/engine/matching"
	"relocation-advisor/internal/service"
	"relocation-advisor/internal/store/assessments"
	"relocation-advisor/internal/store/catalog"
	"relocation-advisor/internal/store/prompts"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting advisor server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Prompt registry ---
	registry, err := prompts.LoadFile(cfg.Prompts.RegistryPath)
	if err != nil {
		zapLog.Fatal("prompt registry load failed", zap.Error(err))
	}
	zapLog.Info("Prompt registry loaded", zap.Strings("templates", registry.Names()))

	// --- Notifier ---
	var notifier service.Notifier = service.NoopNotifier{}
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		notifier = service.NewEmailNotifier(sesClient, cfg.Notifications, log)
		zapLog.Info("SES notifier enabled")
	}

	// --- Stores ---
	cache := assessments.NewSnapshotCache(redisClient.Client, 0, log)
	assessmentStore := assessments.NewCachedStore(
		assessments.NewPostgresStore(pg.DB, log), cache)
	catalogStore := catalog.NewPostgresStore(pg.DB, log)

	// --- Engines ---
	gatewayClient := gateway.NewClient(gateway.FromAppConfig(cfg.GenAI), log)
	categorizer := categorization.NewEngine(gatewayClient, log)
	matcher := matching.NewEngine(matching.FromAppConfig(cfg.Matching), log)

	// --- Service + HTTP ---
	svc := service.New(service.Deps{
		Assessments: assessmentStore,
		Catalog:     catalogStore,
		Registry:    registry,
		Categorizer: categorizer,
		Matcher:     matcher,
		Notifier:    notifier,
		Obs:         obs,
	}, cfg.Assessment, cfg.Prompts, log)

	router := api.NewRouter(api.NewHandler(svc, log))

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// pprof on a side port, never exposed through the main router.
	go func() {
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			zapLog.Error("pprof server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Advisor server stopped gracefully")
}
