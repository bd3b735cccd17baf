package docstore

import (
	"context"

	"github.com/wshaddix/cosmosdb-client-go/pkg/config"
	"github.com/wshaddix/cosmosdb-client-go/pkg/observability/logger"
	"github.com/wshaddix/cosmosdb-client-go/pkg/observability/metrics"
	"github.com/wshaddix/cosmosdb-client-go/pkg/store"
	cosmosstore "github.com/wshaddix/cosmosdb-client-go/pkg/store/cosmos"
)

// Client bundles an Executor with the fixed configuration shared by every
// repository built on it: the tenancy namespace, the logger, and optional
// metrics. It holds no document state and is safe for concurrent use.
type Client struct {
	exec      Executor
	adapter   store.Adapter
	namespace string
	logger    logger.Logger
	metrics   *metrics.StoreMetrics
}

// Option customizes a Client.
type Option func(*Client)

// WithMetrics attaches operation metrics to every repository built on the
// client.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a client over an existing executor. The namespace scopes
// document visibility and must not contain the "." separator.
func NewClient(exec Executor, namespace string, log logger.Logger, opts ...Option) (*Client, error) {
	if exec == nil {
		return nil, NewConfigurationError("executor is required")
	}
	if err := validateNamespace(namespace); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNoop()
	}
	c := &Client{exec: exec, namespace: namespace, logger: log}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Open connects to Cosmos DB with the given configuration and returns a
// client backed by the SQL API adapter. Configuration problems surface here,
// before any network interaction.
func Open(cfg *config.Config, log logger.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, NewConfigurationError("config is required")
	}
	if err := validateNamespace(cfg.Service.Name); err != nil {
		return nil, err
	}
	storeCfg := cosmosstore.Config{
		Endpoint:         cfg.Cosmos.Endpoint,
		Key:              cfg.Cosmos.Key,
		Database:         cfg.Cosmos.Database,
		Container:        cfg.Cosmos.Container,
		PreferredRegions: cfg.Cosmos.PreferredRegions,
		OperationTimeout: cfg.Cosmos.OperationTimeout,
	}
	if err := storeCfg.Validate(); err != nil {
		return nil, NewConfigurationError("%v", err)
	}
	if log == nil {
		log = logger.NewNoop()
	}
	adapter, err := cosmosstore.NewAdapter(storeCfg, log)
	if err != nil {
		return nil, NewConfigurationError("%v", err)
	}
	exec, err := NewCosmosExecutor(adapter)
	if err != nil {
		return nil, NewConfigurationError("%v", err)
	}
	c, err := NewClient(exec, cfg.Service.Name, log, opts...)
	if err != nil {
		return nil, err
	}
	c.adapter = adapter
	return c, nil
}

// Namespace returns the client's configured tenancy namespace.
func (c *Client) Namespace() string {
	return c.namespace
}

// HealthCheck probes the underlying store when the client owns its adapter.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.adapter == nil {
		return nil
	}
	return c.adapter.HealthCheck(ctx)
}

// Close releases the underlying store connection when the client owns its
// adapter.
func (c *Client) Close() error {
	if c.adapter == nil {
		return nil
	}
	return c.adapter.Close()
}
