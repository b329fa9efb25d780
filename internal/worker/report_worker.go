package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/metrics"
	"ledger/internal/report"
	"ledger/internal/services"
	"ledger/internal/sheets"
)

// ReportWorker keeps the month documents in step with the ledger. It reloads
// the blob on every event, so it sees what the API process flushed.
type ReportWorker struct {
	store    *ledger.Store
	renderer *report.Renderer
	exporter sheets.ExportWriter
	metrics  *metrics.Metrics
	logger   *log.Logger
}

// Report kinds counted by the worker.
const (
	reportDocuments = "documents"
	reportSheet     = "sheet"
)

// NewReportWorker creates a worker. exporter may be nil to skip the
// spreadsheet push.
func NewReportWorker(store *ledger.Store, renderer *report.Renderer, exporter sheets.ExportWriter, logger *log.Logger) *ReportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReportWorker{
		store:    store,
		renderer: renderer,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// SetMetrics attaches report outcome counters.
func (w *ReportWorker) SetMetrics(m *metrics.Metrics) {
	w.metrics = m
}

// HandleLedgerChanged processes a single ledger.changed message from AMQP.
// Messages without a month re-render every month.
func (w *ReportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger change",
		log.FieldOperation, msg.Operation,
		log.FieldTxID, msg.ID,
		log.FieldMonth, msg.Month)

	if msg.Month == "" {
		return w.RenderAll(ctx)
	}
	month, err := core.ParseMonth(msg.Month)
	if err != nil {
		// Redelivery cannot fix a bad month; drop the message.
		w.logger.WarnContext(ctx, "Ignoring message with invalid month", log.FieldMonth, msg.Month)
		return nil
	}

	txs, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}
	return w.renderMonth(ctx, txs, month)
}

// RenderAll renders every month present in the ledger.
func (w *ReportWorker) RenderAll(ctx context.Context) error {
	txs, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}

	var errs []error
	for _, month := range Months(txs) {
		if err := w.renderMonth(ctx, txs, month); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *ReportWorker) renderMonth(ctx context.Context, txs []core.Transaction, month string) error {
	paths, err := w.renderer.Render(ctx, txs, month)
	w.metrics.ObserveReport(reportDocuments, err)
	if errors.Is(err, core.ErrEmptyExportSet) {
		if err := w.renderer.Remove(month); err != nil {
			return fmt.Errorf("remove month %s: %w", month, err)
		}
		w.logger.InfoContext(ctx, "Month has no transactions, documents removed", log.FieldMonth, month)
		return nil
	}
	if err != nil {
		return fmt.Errorf("render month %s: %w", month, err)
	}
	w.logger.DebugContext(ctx, "Documents written", log.FieldMonth, month, "paths", paths)

	if w.exporter == nil {
		return nil
	}
	exp, err := services.BuildExport(txs, month)
	if err != nil {
		return err
	}
	ref, err := w.exporter.WriteMonth(ctx, exp)
	w.metrics.ObserveReport(reportSheet, err)
	if err != nil {
		return fmt.Errorf("export month %s to sheet: %w", month, err)
	}
	w.logger.InfoContext(ctx, "Month exported", log.FieldMonth, month, "ref", ref)
	return nil
}

// Months returns the distinct normalized months of txs in ascending order.
// Transactions with a malformed date are skipped.
func Months(txs []core.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range txs {
		raw, ok := tx.Month()
		if !ok {
			continue
		}
		m, err := core.ParseMonth(raw)
		if err != nil || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
