package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/wshaddix/cosmosdb-client-go/pkg/config"
	"github.com/wshaddix/cosmosdb-client-go/pkg/observability/logger"
	"github.com/wshaddix/cosmosdb-client-go/pkg/observability/metrics"
)

func TestNewClient(t *testing.T) {
	exec := newFakeExecutor()

	client, err := NewClient(exec, "svc", logger.NewNoop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Namespace() != "svc" {
		t.Errorf("Namespace() = %q, want %q", client.Namespace(), "svc")
	}
}

func TestNewClient_NilExecutor(t *testing.T) {
	_, err := NewClient(nil, "svc", logger.NewNoop())
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
}

func TestNewClient_InvalidNamespace(t *testing.T) {
	_, err := NewClient(newFakeExecutor(), "a.b", logger.NewNoop())
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
}

func TestNewClient_EmptyNamespaceAllowed(t *testing.T) {
	client, err := NewClient(newFakeExecutor(), "", logger.NewNoop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Namespace() != "" {
		t.Errorf("Namespace() = %q, want empty", client.Namespace())
	}
}

func TestNewClient_NilLoggerDefaultsToNoop(t *testing.T) {
	client, err := NewClient(newFakeExecutor(), "svc", nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.logger == nil {
		t.Fatal("logger was not defaulted")
	}
}

func TestNewClient_WithMetrics(t *testing.T) {
	m := metrics.NewStoreMetrics()
	client, err := NewClient(newFakeExecutor(), "svc", logger.NewNoop(), WithMetrics(m))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.metrics != m {
		t.Error("metrics option was not applied")
	}
}

func TestOpen_ConfigurationFailures(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.DefaultConfig()
		cfg.Service.Name = "svc"
		cfg.Cosmos.Endpoint = "https://acct.documents.azure.com:443/"
		cfg.Cosmos.Key = "c2VjcmV0"
		cfg.Cosmos.Database = "appdb"
		cfg.Cosmos.Container = "documents"
		cfg.Cosmos.PreferredRegions = []string{"East US"}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing endpoint", func(c *config.Config) { c.Cosmos.Endpoint = "" }},
		{"missing key", func(c *config.Config) { c.Cosmos.Key = "" }},
		{"missing database", func(c *config.Config) { c.Cosmos.Database = "" }},
		{"missing container", func(c *config.Config) { c.Cosmos.Container = "" }},
		{"missing regions", func(c *config.Config) { c.Cosmos.PreferredRegions = nil }},
		{"namespace with separator", func(c *config.Config) { c.Service.Name = "a.b" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			_, err := Open(cfg, logger.NewNoop())
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("Open error = %v, want ConfigurationError", err)
			}
		})
	}

	t.Run("nil config", func(t *testing.T) {
		_, err := Open(nil, logger.NewNoop())
		var cerr *ConfigurationError
		if !errors.As(err, &cerr) {
			t.Fatalf("Open error = %v, want ConfigurationError", err)
		}
	})
}

func TestClient_HealthCheckAndCloseWithoutAdapter(t *testing.T) {
	// A client over a caller-supplied executor owns no connection, so probe
	// and shutdown are no-ops.
	client, err := NewClient(newFakeExecutor(), "svc", logger.NewNoop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck = %v, want nil", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close = %v, want nil", err)
	}
}
