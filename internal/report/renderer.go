package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
)

// TableFileName, WorkbookFileName and ChartFileName name the documents
// written for a month.
func TableFileName(month string) string {
	return core.ExportFileName(month, "md")
}

func ChartFileName(month string) string {
	return fmt.Sprintf("Finance_Categories_%s.png", month)
}

// Renderer writes month documents into a directory.
type Renderer struct {
	dir    string
	logger *log.Logger
}

func NewRenderer(dir string, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Renderer{dir: dir, logger: logger.WithComponent(log.ComponentReport)}
}

// Render writes the table, the workbook and the chart of month derived from
// txs. The documents are produced concurrently from the same snapshot. A
// month without expenses gets no chart. It returns the paths written.
func (r *Renderer) Render(ctx context.Context, txs []core.Transaction, month string) ([]string, error) {
	exp, err := services.BuildExport(txs, month)
	if err != nil {
		return nil, err
	}
	view := services.BuildMonthView(txs, month)

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	tablePath := filepath.Join(r.dir, TableFileName(month))
	workbookPath := filepath.Join(r.dir, WorkbookFileName(month))
	chartPath := filepath.Join(r.dir, ChartFileName(month))
	written := []string{tablePath, workbookPath}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var buf bytes.Buffer
		if err := WriteTable(&buf, exp, FormatMarkdown); err != nil {
			return err
		}
		return writeFile(ctx, tablePath, buf.Bytes())
	})
	g.Go(func() error {
		var buf bytes.Buffer
		if err := WriteWorkbook(&buf, exp); err != nil {
			return err
		}
		return writeFile(ctx, workbookPath, buf.Bytes())
	})
	if len(view.Categories) > 0 {
		written = append(written, chartPath)
		g.Go(func() error {
			var buf bytes.Buffer
			if err := WritePieChart(&buf, view.Categories); err != nil {
				return err
			}
			return writeFile(ctx, chartPath, buf.Bytes())
		})
	} else if err := os.Remove(chartPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.WarnContext(ctx, "Failed to remove stale chart", log.FieldError, err.Error(), log.FieldPath, chartPath)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Month report rendered",
		log.FieldOperation, log.OpRender,
		log.FieldMonth, month,
		log.FieldCount, len(exp.Rows))
	return written, nil
}

// Remove deletes the documents of a month, used when it no longer has
// transactions.
func (r *Renderer) Remove(month string) error {
	for _, name := range []string{TableFileName(month), WorkbookFileName(month), ChartFileName(month)} {
		if err := os.Remove(filepath.Join(r.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func writeFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
