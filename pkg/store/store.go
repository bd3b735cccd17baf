// Package store defines the minimal lifecycle contract shared by the
// document-store adapters.
package store

import "context"

// Adapter is the lifecycle and health contract every storage adapter
// satisfies.
type Adapter interface {
	HealthCheck(ctx context.Context) error
	Close() error
}
