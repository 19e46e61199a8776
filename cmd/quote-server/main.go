// cmd/quote-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"laserquote/internal/common/config"
	"laserquote/internal/common/database"
	"laserquote/internal/common/logger"
	"laserquote/internal/common/observability"
	"laserquote/internal/notify"
	"laserquote/internal/quote/analysis"
	"laserquote/internal/quote/pricing"
	"laserquote/internal/quote/wizard"
	"laserquote/internal/quote/workflow"
	"laserquote/internal/server"
	"laserquote/internal/store"
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
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting quote server...",
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
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Wire the quote pipeline ---
	analyzer := analysis.NewClient(
		analysis.LoadConfig(cfg.Services.Analysis.BaseURL, cfg.Services.Analysis.Timeout),
		log,
	)
	calculator := pricing.NewClient(
		pricing.LoadConfig(cfg.Services.Pricing.BaseURL, cfg.Services.Pricing.Timeout),
		log,
	)

	wf := workflow.New(analyzer, calculator, log, obs)
	machine := wizard.NewMachine(wf, log)
	sessions := wizard.NewRedisSessionStore(redis.Client, time.Duration(cfg.Database.Redis.SessionTTL)*time.Minute)
	quoteStore := store.New(pg.DB, log)

	var mailer *notify.Mailer
	if cfg.Notifications.Enabled {
		mailer, err = notify.NewMailer(ctx, cfg.Notifications.AWSRegion, cfg.Notifications.SenderEmail, log)
		if err != nil {
			zapLog.Fatal("mailer init failed", zap.Error(err))
		}
		zapLog.Info("SES mailer initialized", zap.String("region", cfg.Notifications.AWSRegion))
	}

	srv, err := server.New(wf, machine, sessions, log, server.Options{
		Store:          quoteStore,
		Mailer:         mailer,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		zapLog.Fatal("server init failed", zap.Error(err))
	}

	mux := srv.Router()
	mux.Handle("GET /metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}
	zapLog.Info("Quote server stopped")
}
