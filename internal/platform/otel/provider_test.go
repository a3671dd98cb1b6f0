package otel_test

import (
	"context"
	"testing"

	"github.com/studentreg/web/internal/platform/otel"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv(otel.EnvEndpoint, "")
	t.Setenv(otel.EnvEnabled, "")

	shutdown, err := otel.Setup(context.Background(), "web-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupNoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv(otel.EnvEndpoint, "http://localhost:4318")
	t.Setenv(otel.EnvEnabled, "false")

	shutdown, err := otel.Setup(context.Background(), "web-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should ignore cancelled context: %v", err)
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so nothing is exported.
	t.Setenv(otel.EnvEndpoint, "http://192.0.2.1:4318")
	t.Setenv(otel.EnvEnabled, "")

	shutdown, err := otel.Setup(context.Background(), "web-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
