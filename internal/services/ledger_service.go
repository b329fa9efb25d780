package services

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/metrics"
)

// Notifier is told about every flushed mutation. It is optional.
type Notifier interface {
	PublishLedgerChanged(ctx context.Context, operation string, id int64, month string) error
}

// LedgerService validates drafts and applies them to the store. It does not
// recompute views; callers query after mutating.
type LedgerService struct {
	store    *ledger.Store
	ids      *ledger.IDGenerator
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *log.Logger
}

func NewLedgerService(store *ledger.Store, notifier Notifier, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerService{
		store:    store,
		ids:      ledger.NewIDGenerator(),
		notifier: notifier,
		logger:   logger.WithComponent(log.ComponentLedger),
	}
}

// SetMetrics attaches instruments for mutation outcomes and ledger size.
func (s *LedgerService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Start loads the ledger from the blob store and seeds id generation.
func (s *LedgerService) Start(ctx context.Context) error {
	txs, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		s.ids.Observe(tx.ID)
	}
	s.metrics.SetTransactions(len(txs))
	return nil
}

// Create validates the draft, assigns a fresh id and appends it.
//
// A validation failure returns a *core.ValidationError and leaves the store
// untouched. A flush failure returns the created transaction together with
// an error wrapping core.ErrPersistence; the transaction stays in memory.
func (s *LedgerService) Create(ctx context.Context, d core.Draft) (tx core.Transaction, err error) {
	defer func() { s.observe(log.OpCreate, err) }()

	tx, err = d.Build(0)
	if err != nil {
		s.logRejected(ctx, log.OpCreate, err)
		return core.Transaction{}, err
	}

	err = s.store.Mutate(ctx, func(txs []core.Transaction) ([]core.Transaction, error) {
		// ids are issued under the store lock so insertion order follows them
		tx.ID = s.ids.Next()
		return append(txs, tx), nil
	})
	if err != nil {
		return tx, err
	}

	s.logChanged(ctx, log.OpCreate, tx)
	s.notify(ctx, log.OpCreate, tx.ID, tx.Date)
	return tx, nil
}

// Update replaces every record carrying id with the draft, keeping the id.
func (s *LedgerService) Update(ctx context.Context, id int64, d core.Draft) (tx core.Transaction, err error) {
	defer func() { s.observe(log.OpUpdate, err) }()

	tx, err = d.Build(id)
	if err != nil {
		s.logRejected(ctx, log.OpUpdate, err)
		return core.Transaction{}, err
	}

	var previousDate string
	err = s.store.Mutate(ctx, func(txs []core.Transaction) ([]core.Transaction, error) {
		found := false
		for i := range txs {
			if txs[i].ID == id {
				previousDate = txs[i].Date
				txs[i] = tx
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("update %d: %w", id, core.ErrNotFound)
		}
		return txs, nil
	})
	if errors.Is(err, core.ErrNotFound) {
		return core.Transaction{}, err
	}
	if err != nil {
		return tx, err
	}

	s.logChanged(ctx, log.OpUpdate, tx)
	s.notify(ctx, log.OpUpdate, tx.ID, tx.Date)
	if previousDate != tx.Date {
		s.notify(ctx, log.OpUpdate, tx.ID, previousDate)
	}
	return tx, nil
}

// Delete removes the transaction with id. Deleting an absent id is a no-op.
func (s *LedgerService) Delete(ctx context.Context, id int64) (err error) {
	defer func() { s.observe(log.OpDelete, err) }()

	var removed []core.Transaction
	err = s.store.Mutate(ctx, func(txs []core.Transaction) ([]core.Transaction, error) {
		kept := txs[:0]
		for _, tx := range txs {
			if tx.ID == id {
				removed = append(removed, tx)
				continue
			}
			kept = append(kept, tx)
		}
		if len(removed) == 0 {
			return nil, core.ErrNotFound
		}
		return kept, nil
	})
	if errors.Is(err, core.ErrNotFound) {
		s.logger.DebugContext(ctx, "Delete of unknown transaction ignored", log.FieldTxID, id)
		return nil
	}
	if err != nil {
		return err
	}

	for _, tx := range removed {
		s.logChanged(ctx, log.OpDelete, tx)
		s.notify(ctx, log.OpDelete, tx.ID, tx.Date)
	}
	return nil
}

// Get returns the transaction with id, as needed to fill an edit form.
func (s *LedgerService) Get(id int64) (core.Transaction, error) {
	for _, tx := range s.store.Snapshot() {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("get %d: %w", id, core.ErrNotFound)
}

// List returns the whole ledger in insertion order.
func (s *LedgerService) List() []core.Transaction {
	return s.store.Snapshot()
}

// Version changes whenever the ledger does.
func (s *LedgerService) Version() uint64 {
	return s.store.Version()
}

// Flush retries writing the current ledger after a persistence failure.
func (s *LedgerService) Flush(ctx context.Context) error {
	return s.store.Flush(ctx)
}

func (s *LedgerService) observe(op string, err error) {
	s.metrics.ObserveMutation(op, err)
	s.metrics.SetTransactions(s.store.Len())
}

func (s *LedgerService) notify(ctx context.Context, op string, id int64, date string) {
	if s.notifier == nil {
		return
	}
	month, _ := core.MonthOf(date)
	if err := s.notifier.PublishLedgerChanged(ctx, op, id, month); err != nil {
		// The ledger is already flushed; a lost event only delays reports.
		s.logger.ErrorContext(ctx, "Failed to publish ledger change",
			log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
	}
}

func (s *LedgerService) logChanged(ctx context.Context, op string, tx core.Transaction) {
	fields := log.NewFields().
		WithOperation(op).
		WithTransaction(tx.ID, string(tx.Kind()), tx.Amount.String(), tx.Description)
	s.logger.InfoContext(ctx, "Ledger changed", fields.ToSlice()...)
}

func (s *LedgerService) logRejected(ctx context.Context, op string, err error) {
	var ve *core.ValidationError
	reason := err.Error()
	if errors.As(err, &ve) {
		reason = ve.Reason.Error()
	}
	s.logger.InfoContext(ctx, "Draft rejected", log.FieldOperation, op, log.FieldReason, reason)
}
