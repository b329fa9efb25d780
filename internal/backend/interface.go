package backend

import (
	"context"

	"ledger/internal/blob"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the blob store and optional cleanup function
type BackendResult struct {
	Store   blob.Store
	Cleanup CleanupFunc
}

// Factory creates blob stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Key is the blob key of the ledger. The memory backend seeds it from
	// <DataDirectory>/<Key>.json when that file exists.
	Key string

	// SQLite specific
	SQLiteDBPath string

	// File specific
	FileDirectory string

	// Memory backend specific
	DataDirectory string

	// Redis specific
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
	RedisBackend  BackendType = "redis"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MemoryBackend, RedisBackend:
		return true
	default:
		return false
	}
}
