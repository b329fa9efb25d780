package report

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ledger/internal/core"
	"ledger/internal/services"
)

func march() []core.Transaction {
	return []core.Transaction{
		{ID: 1, Description: "Salary", Amount: decimal.NewFromInt(5000), Date: "2024-03-01"},
		{ID: 2, Description: "Food delivery", Amount: decimal.NewFromInt(-40), Date: "2024-03-02"},
		{ID: 3, Description: "Rent", Amount: decimal.NewFromInt(-1250), Date: "2024-03-05"},
		{ID: 4, Description: "Food market", Amount: decimal.NewFromInt(-60), Date: "2024-03-09"},
		{ID: 5, Description: "Gym", Amount: decimal.NewFromInt(-30), Date: "2024-04-02"},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "md": FormatMarkdown, "markdown": FormatMarkdown} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteTableMarkdown(t *testing.T) {
	exp, err := services.BuildExport(march(), "03")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, exp, FormatMarkdown))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# "+core.ExportTitle))
	assert.Contains(t, out, "Month: 03")
	assert.Contains(t, out, "Description")
	assert.Contains(t, out, "-1,250")
	assert.Contains(t, out, "Salary")
	assert.NotContains(t, out, "Gym")

	var rows int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "|") {
			rows++
		}
	}
	// header and separator
	assert.Equal(t, len(exp.Rows)+2, rows)
}

func TestWriteTableMarkdownEscapesCells(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Description: "Rent | garage\nspot", Amount: decimal.NewFromInt(-200), Date: "2024-03-05"},
		{ID: 2, Description: "Salary", Amount: decimal.NewFromInt(5000), Date: "2024-03-01"},
	}
	exp, err := services.BuildExport(txs, "03")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, exp, FormatMarkdown))
	out := buf.String()

	assert.Contains(t, out, `Rent \| garage spot`)
	var rows int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "|") {
			rows++
			assert.Equal(t, 6, strings.Count(line, "|")-strings.Count(line, `\|`), "line %q", line)
		}
	}
	assert.Equal(t, len(exp.Rows)+2, rows)
}

func TestWriteTableText(t *testing.T) {
	exp, err := services.BuildExport(march(), "04")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, exp, FormatText))
	assert.Contains(t, buf.String(), "Gym")
	assert.Contains(t, buf.String(), "Expense")
	assert.NotContains(t, buf.String(), core.ExportTitle)
}

func TestWritePieChart(t *testing.T) {
	var buf bytes.Buffer
	categories := core.Breakdown(core.FilterByMonth(march(), "03"))
	require.NoError(t, WritePieChart(&buf, categories))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, chartWidth, img.Bounds().Dx())
	assert.Equal(t, chartHeight, img.Bounds().Dy())
}

func TestWritePieChartWithoutCategories(t *testing.T) {
	err := WritePieChart(&bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, core.ErrEmptyExportSet)
}

func TestWriteWorkbook(t *testing.T) {
	exp, err := services.BuildExport(march(), "03")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, exp))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := WorkbookSheetName("03")
	assert.Equal(t, []string{sheet}, f.GetSheetList())

	cell := func(axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, core.ExportTitle, cell("A1"))
	assert.Equal(t, "Month: 03", cell("A2"))
	assert.Equal(t, "#", cell("A4"))
	assert.Equal(t, "Type", cell("E4"))
	assert.Equal(t, "1", cell("A5"))
	assert.Equal(t, "Salary", cell("C5"))
	assert.Equal(t, "Income", cell("E5"))
	assert.Equal(t, "-1,250", cell("D7"))
	assert.Equal(t, "Food market", cell("C8"))
	assert.Empty(t, cell("C9"))
}

func TestRendererWritesDocuments(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, nil)

	paths, err := r.Render(context.Background(), march(), "03")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Finance_Transactions_03.md"),
		filepath.Join(dir, "Finance_Transactions_03.xlsx"),
		filepath.Join(dir, "Finance_Categories_03.png"),
	}, paths)

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "temp files must not be left behind")
}

func TestRendererIncomeOnlyMonthHasNoChart(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, nil)
	txs := []core.Transaction{{ID: 1, Description: "Salary", Amount: decimal.NewFromInt(5000), Date: "2024-05-01"}}

	stale := filepath.Join(dir, ChartFileName("05"))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	paths, err := r.Render(context.Background(), txs, "05")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, TableFileName("05")),
		filepath.Join(dir, WorkbookFileName("05")),
	}, paths)
	assert.NoFileExists(t, stale)
}

func TestRendererEmptyMonth(t *testing.T) {
	r := NewRenderer(t.TempDir(), nil)
	_, err := r.Render(context.Background(), march(), "07")
	assert.ErrorIs(t, err, core.ErrEmptyExportSet)

	_, err = r.Render(context.Background(), nil, "03")
	assert.ErrorIs(t, err, core.ErrEmptyExportSet)
}

func TestRendererRemove(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, nil)
	_, err := r.Render(context.Background(), march(), "03")
	require.NoError(t, err)

	require.NoError(t, r.Remove("03"))
	assert.NoFileExists(t, filepath.Join(dir, TableFileName("03")))
	assert.NoFileExists(t, filepath.Join(dir, WorkbookFileName("03")))
	assert.NoFileExists(t, filepath.Join(dir, ChartFileName("03")))
	require.NoError(t, r.Remove("03"))
}
