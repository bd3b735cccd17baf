package docstore

import (
	"context"
	"errors"
	"fmt"

	cosmosstore "github.com/wshaddix/cosmosdb-client-go/pkg/store/cosmos"
)

// CosmosExecutor adapts the store/cosmos adapter to the Executor contract,
// rendering structured queries to the Cosmos SQL dialect.
type CosmosExecutor struct {
	adapter *cosmosstore.Adapter
}

// NewCosmosExecutor creates a new CosmosExecutor instance.
func NewCosmosExecutor(adapter *cosmosstore.Adapter) (*CosmosExecutor, error) {
	if adapter == nil {
		return nil, fmt.Errorf("cosmos adapter is required")
	}
	return &CosmosExecutor{adapter: adapter}, nil
}

// Query renders q to parameterized SQL and returns every matching record.
func (e *CosmosExecutor) Query(ctx context.Context, q Query) ([]Record, error) {
	text, params := q.RenderSQL()
	native := make([]cosmosstore.QueryParameter, 0, len(params))
	for _, p := range params {
		native = append(native, cosmosstore.QueryParameter{Name: p.Name, Value: p.Value})
	}
	items, err := e.adapter.Query(ctx, text, native)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, Record(item))
	}
	return records, nil
}

// ReadItem fetches a record by id.
func (e *CosmosExecutor) ReadItem(ctx context.Context, id string) (Record, error) {
	item, err := e.adapter.ReadItem(ctx, id)
	if errors.Is(err, cosmosstore.ErrItemNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return Record(item), nil
}

// UpsertItem inserts or replaces a record by its id.
func (e *CosmosExecutor) UpsertItem(ctx context.Context, rec Record) error {
	return e.adapter.UpsertItem(ctx, map[string]interface{}(rec))
}

// DeleteItem removes a record by id.
func (e *CosmosExecutor) DeleteItem(ctx context.Context, id string) error {
	err := e.adapter.DeleteItem(ctx, id)
	if errors.Is(err, cosmosstore.ErrItemNotFound) {
		return ErrItemNotFound
	}
	return err
}
