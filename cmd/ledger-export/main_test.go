package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/blob/memory"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/report"
)

func seeded(t *testing.T, txs ...core.Transaction) *memory.Store {
	t.Helper()
	b := memory.New()
	raw, err := ledger.Encode(txs)
	require.NoError(t, err)
	require.NoError(t, b.Set(context.Background(), ledger.DefaultKey, raw))
	return b
}

func TestRunEmptyLedger(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), nil, &stdout, &stderr, "3", "text", "", "", memory.New())
	assert.ErrorIs(t, err, core.ErrEmptyExportSet)
	assert.Empty(t, stdout.String())
}

func TestRunEmptyMonth(t *testing.T) {
	b := seeded(t, core.Transaction{ID: 1, Description: "Gym", Amount: decimal.NewFromInt(-30), Date: "2024-04-02"})

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), nil, &stdout, &stderr, "03", "markdown", "", "", b)
	assert.ErrorIs(t, err, core.ErrEmptyExportSet)
}

func TestRunPrintsMonthTable(t *testing.T) {
	b := seeded(t,
		core.Transaction{ID: 1, Description: "Salary", Amount: decimal.NewFromInt(5000), Date: "2024-03-01"},
		core.Transaction{ID: 2, Description: "Rent", Amount: decimal.NewFromInt(-1250), Date: "2024-03-05"},
		core.Transaction{ID: 3, Description: "Gym", Amount: decimal.NewFromInt(-30), Date: "2024-04-02"},
	)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &stdout, &stderr, "3", "markdown", dir, "", b))

	out := stdout.String()
	assert.Contains(t, out, core.ExportTitle)
	assert.Contains(t, out, "Salary")
	assert.Contains(t, out, "-1,250")
	assert.NotContains(t, out, "Gym")

	for _, name := range []string{report.TableFileName("03"), report.WorkbookFileName("03")} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
		assert.Contains(t, stderr.String(), name)
	}
}

func TestRunRejectsBadArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), nil, &stdout, &stderr, "13", "text", "", "", memory.New())
	assert.ErrorIs(t, err, core.ErrInvalidMonth)

	err = run(context.Background(), nil, &stdout, &stderr, "3", "pdf", "", "", memory.New())
	assert.Error(t, err)
}
