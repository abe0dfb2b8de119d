package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/slotbook/libs/db"
	"github.com/md-rashed-zaman/slotbook/libs/httpx"
	"github.com/md-rashed-zaman/slotbook/libs/kafkax"
	otelx "github.com/md-rashed-zaman/slotbook/libs/otel"
	"github.com/md-rashed-zaman/slotbook/libs/runtime"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/app"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/handlers"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/outbox"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/storage"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/storage/memstore"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/uow"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(cfg.Name)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.Name))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := runtime.ShutdownContext(5 * time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	var checks []runtime.ReadyCheck
	var store uow.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.Open(ctx, cfg.DatabaseURL, db.Options{MaxConns: int32(cfg.DBMaxConns)})
		if err != nil {
			logger.Error("db connection failed", "err", err)
			panic(err)
		}
		defer pool.Close()
		if err := storage.Migrate(ctx, pool); err != nil {
			logger.Error("schema migration failed", "err", err)
			panic(err)
		}

		outboxRepo := outbox.NewRepository()
		store = storage.NewStore(pool, outboxRepo, logger)

		publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
			Brokers:   cfg.KafkaBrokers,
			PollEvery: cfg.OutboxPollEvery,
			BatchSize: cfg.OutboxBatchSize,
		})
		go publisher.Run(ctx)

		checks = append(checks,
			runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
			runtime.ReadyCheck{Name: "outbox", Check: publisher.ReadyCheck(int64(cfg.OutboxMaxBacklog)), Optional: true},
		)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
		store = memstore.New()
	}
	if cfg.KafkaBrokers != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(cfg.KafkaBrokers), Optional: true})
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		checks = append(checks, runtime.ReadyCheck{
			Name:     "redis",
			Check:    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			Optional: true,
		})
	}

	dispatcher := uow.NewDispatcher(logger)
	app.RegisterAudit(dispatcher, logger)
	var cache *availability.Cache
	if rdb != nil {
		cache = availability.NewCache(rdb, cfg.SlotCacheTTL, logger)
		cache.Register(dispatcher)
	}

	pipeline := uow.NewPipeline(store, dispatcher, logger)
	svc := app.New(pipeline, app.Options{
		Cache:    cache,
		SlotStep: cfg.SlotStep,
		Logger:   logger,
	})

	mux := runtime.NewBaseMuxWithReady(checks...)
	handlers.NewAPI(svc, logger).Register(mux)

	var limiter httpx.Limiter
	if rdb != nil {
		limiter = httpx.NewRedisRateLimiter(rdb, cfg.RateLimitPerMin, time.Minute, cfg.RateLimitPrefix)
		logger.Info("rate limiting enabled (redis)", "per_minute", cfg.RateLimitPerMin, "redis_addr", cfg.RedisAddr)
	} else {
		limiter = httpx.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
		logger.Info("rate limiting enabled (in-memory)", "per_minute", cfg.RateLimitPerMin)
	}
	rateLimitMW := httpx.WithRateLimit(limiter, httpx.RateLimitOptions{
		Logger:     logger,
		FailOpen:   cfg.RateLimitFailOpen,
		RetryAfter: time.Minute,
	})

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   cfg.CORSMethods,
			AllowedHeaders:   cfg.CORSHeaders,
			AllowCredentials: cfg.CORSCredentials,
			MaxAge:           cfg.CORSMaxAge,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		httpx.WithBodyLimit(int64(cfg.BodyLimitBytes)),
		httpx.WithTimeout(cfg.RequestTimeout),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "booking")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := runtime.ShutdownContext(10 * time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
