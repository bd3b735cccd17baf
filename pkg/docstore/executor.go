package docstore

import "context"

// Executor is the document-store collaborator contract. Implementations own
// the wire protocol and the native query dialect; the client owns query
// construction, tenancy, and pagination semantics. Executors must be safe
// for concurrent use.
type Executor interface {
	// Query executes a structured query and returns every matching record.
	Query(ctx context.Context, q Query) ([]Record, error)

	// ReadItem fetches a record by id, returning ErrItemNotFound when absent.
	ReadItem(ctx context.Context, id string) (Record, error)

	// UpsertItem inserts or replaces a record keyed by its "id" field.
	UpsertItem(ctx context.Context, rec Record) error

	// DeleteItem removes a record by id, returning ErrItemNotFound when absent.
	DeleteItem(ctx context.Context, id string) error
}
