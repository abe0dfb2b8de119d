package main

import (
	"time"

	"github.com/md-rashed-zaman/slotbook/libs/config"
)

type serviceConfig struct {
	Name        string
	Port        string
	DatabaseURL string
	DBMaxConns  int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SlotCacheTTL  time.Duration
	SlotStep      time.Duration

	KafkaBrokers     string
	OutboxPollEvery  time.Duration
	OutboxBatchSize  int
	OutboxMaxBacklog int

	BodyLimitBytes    int
	RequestTimeout    time.Duration
	RateLimitPerMin   int
	RateLimitPrefix   string
	RateLimitFailOpen bool

	CORSOrigins     []string
	CORSMethods     []string
	CORSHeaders     []string
	CORSCredentials bool
	CORSMaxAge      time.Duration
}

func loadConfig() (serviceConfig, error) {
	cfg := serviceConfig{
		Name:              config.String("SERVICE_NAME", "booking-service"),
		DatabaseURL:       config.String("DATABASE_URL", ""),
		RedisAddr:         config.String("REDIS_ADDR", ""),
		RedisPassword:     config.String("REDIS_PASSWORD", ""),
		KafkaBrokers:      config.String("KAFKA_BROKERS", ""),
		RateLimitPrefix:   config.String("RATE_LIMIT_PREFIX", "rl:booking"),
		RateLimitFailOpen: config.Bool("RATE_LIMIT_FAIL_OPEN", true),
		CORSOrigins:       config.List("CORS_ALLOWED_ORIGINS", ""),
		CORSMethods:       config.List("CORS_ALLOWED_METHODS", ""),
		CORSHeaders:       config.List("CORS_ALLOWED_HEADERS", ""),
		CORSCredentials:   config.Bool("CORS_ALLOW_CREDENTIALS", false),
	}
	var err error
	if cfg.Port, err = config.Port("PORT", "8083"); err != nil {
		return cfg, err
	}
	ints := []struct {
		dst      *int
		key      string
		fallback int
	}{
		{&cfg.DBMaxConns, "DB_MAX_CONNS", 10},
		{&cfg.RedisDB, "REDIS_DB", 0},
		{&cfg.OutboxBatchSize, "OUTBOX_BATCH_SIZE", 50},
		{&cfg.OutboxMaxBacklog, "OUTBOX_MAX_BACKLOG", 1000},
		{&cfg.BodyLimitBytes, "REQUEST_BODY_LIMIT_BYTES", 1 << 20},
		{&cfg.RateLimitPerMin, "RATE_LIMIT_PER_MINUTE", 120},
	}
	for _, v := range ints {
		if *v.dst, err = config.Int(v.key, v.fallback); err != nil {
			return cfg, err
		}
	}
	durations := []struct {
		dst      *time.Duration
		key      string
		fallback time.Duration
	}{
		{&cfg.SlotCacheTTL, "SLOT_CACHE_TTL", 5 * time.Minute},
		{&cfg.SlotStep, "SLOT_STEP", 15 * time.Minute},
		{&cfg.OutboxPollEvery, "OUTBOX_POLL_EVERY", 2 * time.Second},
		{&cfg.RequestTimeout, "REQUEST_TIMEOUT", 10 * time.Second},
		{&cfg.CORSMaxAge, "CORS_MAX_AGE", 10 * time.Minute},
	}
	for _, v := range durations {
		if *v.dst, err = config.Duration(v.key, v.fallback); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
