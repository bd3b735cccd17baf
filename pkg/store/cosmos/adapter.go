// Package cosmos provides an Azure Cosmos DB (SQL API) storage adapter.
package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"github.com/wshaddix/cosmosdb-client-go/pkg/observability/logger"
)

// ErrItemNotFound reports that no item exists for the requested id.
var ErrItemNotFound = errors.New("cosmos item not found")

// Config holds Cosmos DB adapter configuration. Items are keyed and
// partitioned by their "id" field; one container holds one logical
// collection.
type Config struct {
	Endpoint         string
	Key              string
	Database         string
	Container        string
	PreferredRegions []string
	OperationTimeout time.Duration
}

// Validate reports the first missing construction parameter.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("cosmos endpoint is required")
	}
	if c.Key == "" {
		return fmt.Errorf("cosmos key is required")
	}
	if c.Database == "" {
		return fmt.Errorf("cosmos database is required")
	}
	if c.Container == "" {
		return fmt.Errorf("cosmos container is required")
	}
	if len(c.PreferredRegions) == 0 {
		return fmt.Errorf("at least one preferred region is required")
	}
	return nil
}

// QueryParameter is a bound value for a parameterized query.
type QueryParameter struct {
	Name  string
	Value interface{}
}

// Adapter provides Cosmos DB connectivity for one container. The SDK client
// is safe for concurrent use; retry and connection policy are its concern,
// not the adapter's.
type Adapter struct {
	container *azcosmos.ContainerClient
	logger    logger.Logger
	timeout   time.Duration
}

// NewAdapter creates a Cosmos DB adapter for the configured container.
// Construction is offline; the first network interaction happens on the
// first operation or health check.
func NewAdapter(cfg Config, log logger.Logger) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 10 * time.Second
	}

	cred, err := azcosmos.NewKeyCredential(cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cosmos credential: %w", err)
	}
	client, err := azcosmos.NewClientWithKey(cfg.Endpoint, cred, &azcosmos.ClientOptions{
		PreferredRegions: cfg.PreferredRegions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cosmos client: %w", err)
	}
	container, err := client.NewContainer(cfg.Database, cfg.Container)
	if err != nil {
		return nil, fmt.Errorf("failed to open container %s/%s: %w", cfg.Database, cfg.Container, err)
	}

	log.Info("Cosmos DB container opened", "database", cfg.Database, "container", cfg.Container)
	return &Adapter{container: container, logger: log, timeout: cfg.OperationTimeout}, nil
}

// Query executes a parameterized SQL query across all partitions and returns
// the decoded items.
func (a *Adapter) Query(ctx context.Context, query string, params []QueryParameter) ([]map[string]interface{}, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	opts := &azcosmos.QueryOptions{}
	for _, p := range params {
		opts.QueryParameters = append(opts.QueryParameters, azcosmos.QueryParameter{Name: p.Name, Value: p.Value})
	}

	// An empty partition key runs the query across partitions.
	pager := a.container.NewQueryItemsPager(query, azcosmos.PartitionKey{}, opts)
	var items []map[string]interface{}
	for pager.More() {
		page, err := pager.NextPage(opCtx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			item := map[string]interface{}{}
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to decode query item: %w", err)
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// ReadItem fetches an item by id, returning ErrItemNotFound when absent.
func (a *Adapter) ReadItem(ctx context.Context, id string) (map[string]interface{}, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	resp, err := a.container.ReadItem(opCtx, azcosmos.NewPartitionKeyString(id), id, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	item := map[string]interface{}{}
	if err := json.Unmarshal(resp.Value, &item); err != nil {
		return nil, fmt.Errorf("failed to decode item %s: %w", id, err)
	}
	return item, nil
}

// UpsertItem inserts or replaces an item keyed by its "id" field.
func (a *Adapter) UpsertItem(ctx context.Context, item map[string]interface{}) error {
	id, _ := item["id"].(string)
	if id == "" {
		return fmt.Errorf("item id is required")
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item %s: %w", id, err)
	}

	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	_, err = a.container.UpsertItem(opCtx, azcosmos.NewPartitionKeyString(id), payload, nil)
	return err
}

// DeleteItem removes an item by id, returning ErrItemNotFound when absent.
func (a *Adapter) DeleteItem(ctx context.Context, id string) error {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	if _, err := a.container.DeleteItem(opCtx, azcosmos.NewPartitionKeyString(id), id, nil); err != nil {
		if isNotFound(err) {
			return ErrItemNotFound
		}
		return err
	}
	return nil
}

// HealthCheck probes the container with a minimal query.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	hcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	pager := a.container.NewQueryItemsPager("SELECT TOP 1 c.id FROM c", azcosmos.PartitionKey{}, nil)
	if pager.More() {
		if _, err := pager.NextPage(hcCtx); err != nil {
			a.logger.Error("Cosmos DB health check failed", "error", err)
			return fmt.Errorf("cosmos health check failed: %w", err)
		}
	}
	return nil
}

// Close releases nothing: the SDK owns the HTTP connection pool.
func (a *Adapter) Close() error {
	return nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

func (a *Adapter) withOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}
