package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	httpin "catering_ops/internal/adapters/inbound/http"
	kafkain "catering_ops/internal/adapters/inbound/kafka"
	"catering_ops/internal/adapters/outbound/cache"
	kafkaout "catering_ops/internal/adapters/outbound/kafka"
	"catering_ops/internal/adapters/outbound/metrics"
	"catering_ops/internal/adapters/outbound/postgres"
	"catering_ops/internal/app/config"
	"catering_ops/internal/app/runtime"
	"catering_ops/internal/core/service"
	"catering_ops/internal/migrations"
	"catering_ops/internal/ports/outbound"
)

type resolutionCache interface {
	outbound.ResolutionCache
	Stats() *cache.Stats
}

func main() {
	ctx, stop := runtime.NotifyContext(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := runtime.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("bye")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	db, err := postgres.New(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return err
	}

	// migrations
	migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	src := migrations.FS()
	if cfg.MigrationsDir != "" {
		src = os.DirFS(cfg.MigrationsDir)
	}
	if err := postgres.RunMigrations(migCtx, db.Pool, src, log); err != nil {
		db.Close()
		return err
	}

	m := metrics.New()
	closers := []runtime.Closer{}

	var resolutions resolutionCache
	if cfg.RedisURL != "" {
		client, err := cache.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			db.Close()
			return err
		}
		closers = append(closers, runtime.Closer{Name: "redis", Close: client.Close})
		resolutions = cache.NewResolutionRedis(client, cfg.ResolverCacheTTL, log)
		log.Info("resolver cache", slog.String("backend", "redis"))
	} else {
		resolutions = cache.NewResolutionLRU(cfg.ResolverCacheMaxEntries, cfg.ResolverCacheTTL)
		log.Info("resolver cache", slog.String("backend", "lru"), slog.Int("max_entries", cfg.ResolverCacheMaxEntries))
	}
	m.RegisterCache("os_resolution_cache", resolutions.Stats())

	orderRepo := postgres.NewOrderRepository(db.Pool)
	osRepo := postgres.NewOSRepository(db.Pool)

	resolver := service.NewCachedResolver(
		service.NewResolver(orderRepo, service.WithResolutionObserver(m)),
		resolutions,
		m,
	)

	orderCache := cache.NewMemoryCache()
	m.RegisterCache("order_cache", orderCache.Stats())
	orders := service.NewOrderService(orderRepo, orderCache, resolver, resolutions)

	// warm cache
	if n, err := orders.WarmCache(ctx, cfg.CacheWarmLimit); err != nil {
		log.Warn("cache warmup failed", slog.String("error", err.Error()))
	} else {
		log.Info("cache warmed", slog.Int("orders", n), slog.Int("cache_size", orderCache.Len(ctx)))
	}

	publisher := kafkaout.NewChangePublisher(kafkaout.PublisherConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaChangesTopic,
	})

	svc := httpin.Services{
		Orders:    orders,
		Panels:    service.NewPanelService(orders, osRepo, osRepo, osRepo, publisher, log),
		Changes:   service.NewChangeLogService(orders, osRepo),
		Comments:  service.NewCommentService(orders, osRepo),
		RealCosts: service.NewRealCostService(orders, osRepo),
		Links:     service.NewSharedLinkService(orders, osRepo, cfg.ShareLinkTTL),
		Tasks:     service.NewTaskService(orders, osRepo),
	}

	// HTTP
	router := httpin.NewRouter(httpin.RouterConfig{
		Handlers: httpin.NewHandlers(svc, db, log),
		UI:       httpin.NewUI(orders, svc.Panels, log),
		Resolver: resolver,
		Metrics:  m.Handler(),
		Log:      log,
	})
	httpSrv := runtime.NewHTTPServer(cfg.HTTPAddr, router, log)
	httpErr := httpSrv.Start()

	// kafka consumer
	consumer := kafkain.NewConsumer(kafkain.ConsumerConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaConsumerGroup,
		MinBytes: cfg.KafkaMinBytes,
		MaxBytes: cfg.KafkaMaxBytes,
	}, orders, log, m)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		consumer.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-httpErr:
		stop()
	}

	if err := httpSrv.Shutdown(context.Background(), cfg.ShutdownTimeout); err != nil {
		log.Warn("http shutdown", slog.String("error", err.Error()))
	}
	<-consumerDone

	closers = append([]runtime.Closer{
		{Name: "consumer", Close: consumer.Close},
		{Name: "publisher", Close: publisher.Close},
	}, closers...)
	closers = append(closers, runtime.Closer{Name: "postgres", Close: func() error { db.Close(); return nil }})
	runtime.CloseAll(log, closers...)

	return runErr
}
