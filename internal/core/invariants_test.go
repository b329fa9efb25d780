package core

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

func fakeLedger(n int) []Transaction {
	txs := make([]Transaction, 0, n)
	for i := 0; i < n; i++ {
		amount := decimal.NewFromFloat(gofakeit.Float64Range(0.01, 2000)).Round(2)
		if amount.IsZero() {
			amount = decimal.NewFromInt(1)
		}
		if gofakeit.Bool() {
			amount = amount.Neg()
		}
		txs = append(txs, Transaction{
			ID:          int64(i + 1),
			Description: gofakeit.Sentence(3),
			Amount:      amount,
			Date:        fmt.Sprintf("2024-%02d-%02d", gofakeit.Number(1, 12), gofakeit.Number(1, 28)),
		})
	}
	return txs
}

func TestMonthAggregatesAreConsistent(t *testing.T) {
	gofakeit.Seed(42)
	txs := fakeLedger(300)

	seen := 0
	for m := 1; m <= 12; m++ {
		month := fmt.Sprintf("%02d", m)
		filtered := FilterByMonth(txs, month)
		seen += len(filtered)

		s := Summarize(filtered)
		if !s.NetBalance.Equal(s.IncomeTotal.Sub(s.ExpenseTotal)) {
			t.Fatalf("%s: net %s != income %s - expense %s", month, s.NetBalance, s.IncomeTotal, s.ExpenseTotal)
		}
		if s.ExpenseTotal.IsNegative() {
			t.Fatalf("%s: expense total must be a magnitude, got %s", month, s.ExpenseTotal)
		}

		categorized := decimal.Zero
		for _, amount := range Categorize(filtered) {
			categorized = categorized.Add(amount)
		}
		if !categorized.Equal(s.ExpenseTotal) {
			t.Fatalf("%s: categories sum to %s, expense total is %s", month, categorized, s.ExpenseTotal)
		}

		rows := ExportRows(filtered)
		if len(rows) != len(filtered) {
			t.Fatalf("%s: %d rows for %d transactions", month, len(rows), len(filtered))
		}
		for i, row := range rows {
			if row.Index != i+1 {
				t.Fatalf("%s: row %d has index %d", month, i, row.Index)
			}
		}
	}
	if seen != len(txs) {
		t.Fatalf("months partition %d of %d transactions", seen, len(txs))
	}
}
