package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"example.com/signup/internal/api"
	"example.com/signup/internal/config"
	"example.com/signup/internal/directory"
	"example.com/signup/internal/domain"
	"example.com/signup/internal/logging"
	"example.com/signup/internal/outbox"
	httptransport "example.com/signup/internal/transport/http"
	"example.com/signup/internal/web"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed, err := directory.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		logger.Fatal("failed to load activity seed", zap.String("path", cfg.SeedFile), zap.Error(err))
	}
	activities := directory.NewInMemoryDirectory(seed)
	logger.Info("activity directory seeded", zap.Int("activities", len(seed)))

	var (
		recorder   domain.EventRecorder = domain.NoopRecorder{}
		dispatcher *outbox.Dispatcher
	)
	if cfg.EventsEnabled() {
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		queue := outbox.NewQueue(cfg.OutboxQueueSize)
		dispatcher = outbox.NewDispatcher(queue, producer, outbox.DispatcherConfig{
			Topic:        cfg.RosterEventsTopic,
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
		}, logger.Named("outbox"))
		recorder = queue

		go dispatcher.Start(ctx)
		logger.Info("roster events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.RosterEventsTopic))
	} else {
		logger.Info("KAFKA_BROKERS not set, roster events disabled")
	}

	service := domain.NewService(activities, recorder)
	if err := service.PublishRosterGauges(ctx); err != nil {
		logger.Warn("failed to publish roster gauges", zap.Error(err))
	}

	handler := api.NewHandler(service, logger.Named("api"))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/static/", web.StaticHandler())
	mux.Handle("/metrics", promhttp.Handler())

	server := httptransport.NewServer(
		httptransport.DefaultServerConfig(cfg.HTTPAddress),
		httptransport.Chain(mux,
			httptransport.RequestLogger(logger.Named("http")),
			httptransport.CORS(cfg.CORSAllowedOrigin),
		),
	)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("signup-service listening", zap.String("address", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}

	// Stop the dispatcher only after in-flight requests have finished recording events.
	cancel()
	if dispatcher != nil {
		dispatcher.Wait()
	}
}
