package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/services"
)

func TestWriteMonthReplacesTable(t *testing.T) {
	s := New()
	txs := []core.Transaction{
		{ID: 1, Description: "Rent", Amount: decimal.NewFromInt(-1200), Date: "2024-03-05"},
		{ID: 2, Description: "Salary", Amount: decimal.NewFromInt(5000), Date: "2024-03-01"},
	}
	exp, err := services.BuildExport(txs, "03")
	if err != nil {
		t.Fatalf("build export: %v", err)
	}

	ref, err := s.WriteMonth(context.Background(), exp)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if ref != "memory:03!A1:E3" {
		t.Fatalf("unexpected ref %q", ref)
	}

	exp, _ = services.BuildExport(txs[:1], "03")
	if _, err := s.WriteMonth(context.Background(), exp); err != nil {
		t.Fatalf("write: %v", err)
	}
	table, ok := s.Month("03")
	if !ok || len(table) != 2 {
		t.Fatalf("expected header and one row, got %v", table)
	}
	if table[1][2] != "Rent" {
		t.Fatalf("unexpected row %v", table[1])
	}
	if s.Writes() != 2 {
		t.Fatalf("expected 2 writes, got %d", s.Writes())
	}
}

func TestWriteMonthRequiresMonth(t *testing.T) {
	if _, err := New().WriteMonth(context.Background(), services.Export{}); err == nil {
		t.Fatal("expected error")
	}
}
