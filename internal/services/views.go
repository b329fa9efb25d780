package services

import (
	"fmt"

	"ledger/internal/core"
)

// MonthView is the read-only snapshot rendered for a selected month.
type MonthView struct {
	Month        string
	Transactions []core.Transaction
	Income       []core.Transaction
	Expenses     []core.Transaction
	Summary      core.Summary
	Categories   []core.CategoryAmount
}

// Export is the table handed to document generators.
type Export struct {
	Month  string
	Title  string
	Header []string
	Rows   []core.Row
}

// Month derives the views of one month from the current ledger.
func (s *LedgerService) Month(month string) (MonthView, error) {
	m, err := core.ParseMonth(month)
	if err != nil {
		return MonthView{}, err
	}
	return BuildMonthView(s.store.Snapshot(), m), nil
}

// Export builds the export table of one month. It refuses with
// core.ErrEmptyExportSet when the ledger is empty or the month has no entries.
func (s *LedgerService) Export(month string) (Export, error) {
	m, err := core.ParseMonth(month)
	if err != nil {
		return Export{}, err
	}
	return BuildExport(s.store.Snapshot(), m)
}

// BuildMonthView is the pure derivation behind LedgerService.Month.
func BuildMonthView(txs []core.Transaction, month string) MonthView {
	filtered := core.FilterByMonth(txs, month)
	income, expenses := core.SplitByKind(filtered)
	return MonthView{
		Month:        month,
		Transactions: filtered,
		Income:       income,
		Expenses:     expenses,
		Summary:      core.Summarize(filtered),
		Categories:   core.Breakdown(filtered),
	}
}

// BuildExport is the pure derivation behind LedgerService.Export.
func BuildExport(txs []core.Transaction, month string) (Export, error) {
	if len(txs) == 0 {
		return Export{}, core.ErrEmptyExportSet
	}
	filtered := core.FilterByMonth(txs, month)
	if len(filtered) == 0 {
		return Export{}, fmt.Errorf("month %s: %w", month, core.ErrEmptyExportSet)
	}
	return Export{
		Month:  month,
		Title:  core.ExportTitle,
		Header: core.ExportHeader,
		Rows:   core.ExportRows(filtered),
	}, nil
}
