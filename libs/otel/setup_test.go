package otelx

import (
	"context"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", " jaeger:4317 ")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.25")
	cfg := ConfigFromEnv("booking-service")
	if cfg.Enabled || cfg.Endpoint != "jaeger:4317" || cfg.SampleRatio != 0.25 || cfg.ServiceName != "booking-service" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	t.Setenv("OTEL_ENABLED", "maybe")
	t.Setenv("OTEL_SAMPLING_RATIO", "2")
	cfg = ConfigFromEnv("booking-service")
	if !cfg.Enabled || cfg.SampleRatio != 1 {
		t.Fatalf("invalid values should keep defaults, got %+v", cfg)
	}
}

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
