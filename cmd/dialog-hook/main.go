// cmd/dialog-hook/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dining-concierge/internal/adapter/queue"
	"dining-concierge/internal/adapter/storage/redis"
	commonaws "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	diningdialog "dining-concierge/internal/workers/dialog/dining-dialog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if err := cfg.ValidateDialog(); err != nil {
		zapLog.Fatal("invalid dialog configuration", zap.Error(err))
	}

	zapLog.Info("Starting dialog hook...", zap.String("address", cfg.Server.Address))

	ctx := context.Background()

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	if err := rdb.Ping(ctx); err != nil {
		// history is optional for the flow; lookups degrade to an apology
		zapLog.Warn("redis not reachable at startup", zap.Error(err))
	}

	awsCfg, err := commonaws.LoadConfig(ctx, cfg.AWS)
	if err != nil {
		zapLog.Fatal("aws config failed", zap.Error(err))
	}

	handler := diningdialog.NewHandler(diningdialog.LoadConfig(cfg), diningdialog.HandlerDependencies{
		Queue: queue.NewSQSQueue(
			commonaws.NewSQSClient(awsCfg),
			cfg.AWS.SQS.QueueURL,
			cfg.AWS.SQS.VisibilityTimeout,
			log,
		),
		History: redis.NewHistoryStore(rdb.Client, cfg.Database.Redis.KeyPrefix, log),
		Logger:  log,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	handler.RegisterRoutes(e, diningdialog.RateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := rdb.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "history store unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		if err := e.Start(cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("dialog hook server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping dialog hook...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down server", zap.Error(err))
	}

	zapLog.Info("Dialog hook stopped gracefully")
}
