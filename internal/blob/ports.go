// Package blob defines the opaque key/value persistence the ledger is
// flushed to.
package blob

import "context"

// Store is the persistence boundary. Get reports absent keys with ok=false
// and a nil error; any error means the backend itself is unavailable.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
