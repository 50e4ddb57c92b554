// cmd/suggestion-worker/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dining-concierge/internal/adapter/notify"
	"dining-concierge/internal/adapter/queue"
	"dining-concierge/internal/adapter/search"
	"dining-concierge/internal/adapter/storage/dynamodb"
	"dining-concierge/internal/adapter/storage/postgres"
	commonaws "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/camunda"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/observability"
	ps "dining-concierge/internal/workers/fulfillment/process-suggestion"
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
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if err := cfg.ValidateWorker(); err != nil {
		zapLog.Fatal("invalid worker configuration", zap.Error(err))
	}

	zapLog.Info("Starting suggestion worker...",
		zap.String("catalog", cfg.Suggestions.CatalogBackend),
		zap.String("notifier", cfg.Suggestions.Notifier),
	)

	obs := observability.New("suggestion-worker", log)
	defer obs.Shutdown()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	awsCfg, err := commonaws.LoadConfig(ctx, cfg.AWS)
	if err != nil {
		zapLog.Fatal("aws config failed", zap.Error(err))
	}

	// --- Search index ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Catalog ---
	var catalog ps.Catalog
	switch cfg.Suggestions.CatalogBackend {
	case config.CatalogDynamoDB:
		catalog = dynamodb.NewCatalogTable(commonaws.NewDynamoDBClient(awsCfg), cfg.AWS.DynamoDB.RestaurantsTable)
	default:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
		catalog = postgres.NewCatalogRepository(pg.DB)
	}

	// --- Notifier ---
	var notifier ps.Notifier
	switch cfg.Suggestions.Notifier {
	case config.NotifierSNS:
		notifier = notify.NewSNSNotifier(commonaws.NewSNSClient(awsCfg), cfg.AWS.SNS.TopicARN)
	default:
		notifier = notify.NewSESNotifier(commonaws.NewSESClient(awsCfg), cfg.AWS.SES.FromEmail)
	}

	seed := cfg.Suggestions.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	handler := ps.NewHandler(ps.LoadConfig(cfg), ps.HandlerDependencies{
		Queue: queue.NewSQSQueue(
			commonaws.NewSQSClient(awsCfg),
			cfg.AWS.SQS.QueueURL,
			cfg.AWS.SQS.VisibilityTimeout,
			log,
		),
		Search: search.NewElasticsearchIndex(
			esClient.Client,
			cfg.Database.Elasticsearch.Index,
			search.DefaultBreakerSettings,
			log,
		),
		Catalog:  catalog,
		Notifier: notifier,
		Rand:     rand.New(rand.NewSource(seed)),
		Logger:   log,
	})
	runner := ps.NewRunner(handler, obs, log)

	// --- Optional scheduled drain over Zeebe ---
	var drainWorker *camunda.CamundaWorker
	var zeebe *camunda.Client
	if cfg.Camunda.BrokerAddress != "" && config.IsWorkerEnabled(cfg, ps.DrainTaskType) {
		zeebe, err = camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		wcfg := config.GetWorkerConfig(cfg, ps.DrainTaskType)
		drainWorker = camunda.NewWorker(
			zeebe.GetClient(),
			ps.DrainTaskType,
			wcfg.MaxJobsActive,
			ps.NewDrainHandler(runner, log),
			log,
		)
	}

	runnerDone := make(chan error, 1)
	go func() { runnerDone <- runner.Run(ctx) }()

	// --- Health / metrics ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := esClient.Ping(pingCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "search index unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.Server.MetricsAddress, Handler: mux}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping worker...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if drainWorker != nil {
		drainWorker.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	select {
	case <-runnerDone:
	case <-shutdownCtx.Done():
		zapLog.Warn("runner did not stop before shutdown deadline")
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down health server", zap.Error(err))
	}

	zapLog.Info("Suggestion worker stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
