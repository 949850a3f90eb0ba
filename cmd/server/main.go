package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"invoicegate/internal/approval"
	memorystore "invoicegate/internal/approval/store/memory"
	postgresstore "invoicegate/internal/approval/store/postgres"
	"invoicegate/internal/event"
	"invoicegate/internal/event/kafka"
	"invoicegate/internal/event/redisstream"
	"invoicegate/internal/invoice"
	"invoicegate/internal/platform/config"
	"invoicegate/internal/platform/httpserver"
	"invoicegate/internal/platform/logger"
	"invoicegate/internal/platform/metrics"
	"invoicegate/internal/platform/postgres"
	"invoicegate/internal/platform/redis"
	httptransport "invoicegate/internal/transport/http"
	"invoicegate/internal/validation"
)

// main wires dependencies and owns the process lifecycle. Business logic lives
// in the internal packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var checks []httptransport.HealthCheck

	store, cleanupStore, storeCheck, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanupStore()
	if storeCheck != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "store", Check: storeCheck})
	}

	publisher, publisherCheck, err := buildPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	if publisherCheck != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "event_sink", Check: publisherCheck})
	}
	events := event.NewDispatcher(publisher, log, m, cfg.EventPublishTimeout, cfg.EventSink)
	defer func() {
		if err := events.Close(); err != nil {
			log.Error("closing event dispatcher", "error", err)
		}
	}()

	var extractor invoice.Extractor
	if cfg.ExtractorURL != "" {
		extractor = invoice.NewHTTPExtractor(cfg.ExtractorURL)
	}

	engine := validation.NewEngine(validation.Config{
		AmountThreshold:       cfg.Rules.AmountThreshold,
		MinConfidence:         cfg.Rules.MinConfidence,
		RequireInvoiceKeyword: cfg.Rules.RequireInvoiceKeyword,
		RejectReceiptKeyword:  cfg.Rules.RejectReceiptKeyword,
		AllowedBillToNames:    cfg.Rules.AllowedBillToNames,
	})
	service := invoice.NewService(engine, store, events, extractor, log, m)

	router := httptransport.NewRouter(httptransport.NewHandler(service, log, checks...))
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting invoicegate",
		"addr", cfg.Addr,
		"store", cfg.StoreBackend,
		"event_sink", cfg.EventSink,
		"amount_threshold", cfg.Rules.AmountThreshold,
		"min_confidence", cfg.Rules.MinConfidence,
		"bill_to_whitelist", len(cfg.Rules.AllowedBillToNames),
	)
	if len(cfg.Rules.AllowedBillToNames) == 0 {
		log.Warn("bill-to whitelist is empty, all counterparties accepted")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildStore selects the approval store backend. The returned cleanup closes
// whatever resources the backend holds; the check, when non-nil, feeds the
// readiness endpoint.
func buildStore(ctx context.Context, cfg config.Config) (approval.Store, func(), func(context.Context) error, error) {
	switch cfg.StoreBackend {
	case "memory":
		return memorystore.NewStore(), func() {}, nil, nil
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		store := postgresstore.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, pool.Close, pool.Ping, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}

// buildPublisher selects the outbound event channel.
func buildPublisher(ctx context.Context, cfg config.Config, log *slog.Logger) (event.Publisher, func(context.Context) error, error) {
	switch cfg.EventSink {
	case "none":
		return event.Noop{}, nil, nil
	case "log":
		return event.NewLogSink(log), nil, nil
	case "kafka":
		publisher, err := kafka.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		return publisher, publisher.Ping, nil
	case "redis":
		client, err := redis.New(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, fmt.Errorf("EVENT_SINK=redis requires REDIS_URL")
		}
		if err := client.Health(ctx); err != nil {
			return nil, nil, fmt.Errorf("redis health: %w", err)
		}
		return redisstream.New(client, cfg.RedisStream), client.Health, nil
	}
	return nil, nil, fmt.Errorf("unknown EVENT_SINK %q", cfg.EventSink)
}
