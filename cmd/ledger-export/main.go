// Command ledger-export prints the export table of one month and optionally
// writes its documents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"ledger/internal/blob"
	"ledger/internal/cli"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/report"
	"ledger/internal/services"
)

func main() {
	month := flag.String("month", "", "month to export (1-12)")
	format := flag.String("format", "text", "table format: text or markdown")
	out := flag.String("out", "", "also write the month documents into this directory")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentReport)
	cfg := cli.LoadAndValidateConfig(logger)

	backend := cli.InitBackend(context.Background(), logger, cfg)
	err := run(context.Background(), logger, os.Stdout, os.Stderr, *month, *format, *out, cfg.LedgerKey, backend.Store)
	if backend.Cleanup != nil {
		_ = backend.Cleanup()
	}
	if err != nil {
		if errors.Is(err, core.ErrEmptyExportSet) {
			fmt.Fprintln(os.Stderr, "nothing to export")
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, stdout, stderr io.Writer, month, format, out, key string, b blob.Store) error {
	m, err := core.ParseMonth(month)
	if err != nil {
		return err
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	store := ledger.NewStore(b, key, logger)
	txs, err := store.Load(ctx)
	if err != nil {
		return err
	}
	exp, err := services.BuildExport(txs, m)
	if err != nil {
		return err
	}
	if err := report.WriteTable(stdout, exp, f); err != nil {
		return err
	}

	if out == "" {
		return nil
	}
	paths, err := report.NewRenderer(out, logger).Render(ctx, txs, m)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(stderr, "wrote", p)
	}
	return nil
}
