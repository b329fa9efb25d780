// Package ledger holds the process-wide transaction collection and its
// persistence to a blob store.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"ledger/internal/blob"
	"ledger/internal/core"
	"ledger/internal/log"
)

// DefaultKey is the blob key the ledger is stored under.
const DefaultKey = "transactions"

// Store is the single source of truth for transactions. Mutations are
// serialized by mu and flushed to the blob store before the lock is released.
type Store struct {
	mu     sync.Mutex
	blob   blob.Store
	key    string
	items  []core.Transaction
	logger *log.Logger

	// version increases whenever items is replaced.
	version uint64
}

func NewStore(b blob.Store, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		blob:   b,
		key:    key,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// Load reads the blob and replaces the in-memory ledger with it. A missing
// or unparsable blob yields an empty ledger; only a failing backend is an
// error.
func (s *Store) Load(ctx context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.blob.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", core.ErrPersistence, s.key, err)
	}

	var txs []core.Transaction
	if ok {
		txs, err = Decode(raw)
		if err != nil {
			s.logger.WarnContext(ctx, "Stored ledger is unreadable, starting empty",
				log.FieldBlobKey, s.key, log.FieldError, err)
			txs = nil
		}
	}
	s.items = txs
	s.version++

	s.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldBlobKey, s.key,
		log.FieldCount, len(txs),
		log.FieldOperation, log.OpLoad)
	return clone(txs), nil
}

// Snapshot returns a copy of the ledger in insertion order.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Version identifies the current ledger contents. Values derived from a
// snapshot stay valid while Version is unchanged.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// ReplaceAll swaps the in-memory ledger and writes it out.
func (s *Store) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	return s.Mutate(ctx, func([]core.Transaction) ([]core.Transaction, error) {
		return txs, nil
	})
}

// Mutate runs fn on a copy of the ledger under the store lock. If fn fails
// nothing changes. Otherwise its result becomes the ledger and is flushed;
// a flush failure is returned wrapped in core.ErrPersistence while memory
// keeps the new state.
func (s *Store) Mutate(ctx context.Context, fn func([]core.Transaction) ([]core.Transaction, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(clone(s.items))
	if err != nil {
		return err
	}
	s.items = clone(next)
	s.version++
	return s.flushLocked(ctx)
}

// Flush writes the current ledger again, for retrying after a failed write.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

func (s *Store) flushLocked(ctx context.Context) error {
	raw, err := Encode(s.items)
	if err != nil {
		return err
	}
	if err := s.blob.Set(ctx, s.key, raw); err != nil {
		s.logger.ErrorContext(ctx, "Ledger flush failed",
			log.FieldBlobKey, s.key, log.FieldError, err, log.FieldOperation, log.OpFlush)
		return fmt.Errorf("%w: flush %s: %v", core.ErrPersistence, s.key, err)
	}
	s.logger.DebugContext(ctx, "Ledger flushed",
		log.FieldBlobKey, s.key, log.FieldCount, len(s.items), log.FieldOperation, log.OpFlush)
	return nil
}

func clone(txs []core.Transaction) []core.Transaction {
	if txs == nil {
		return []core.Transaction{}
	}
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	return out
}
