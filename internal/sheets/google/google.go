package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"ledger/internal/log"
	"ledger/internal/services"
	ports "ledger/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultSheetBase = "Transactions"

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base name of the per-month tabs, e.g. "Transactions" -> "Transactions 03".
	sheetBase string
	logger    *log.Logger
}

var _ ports.ExportWriter = (*Exporter)(nil)

// NewFromEnv creates an Exporter using environment variables and service
// account credentials.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SHEET_NAME (default "Transactions")
func NewFromEnv(ctx context.Context, logger *log.Logger) (*Exporter, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := serviceAccountCredentials(ctx)
	if err != nil {
		return nil, err
	}
	return New(ctx, spreadsheetID, os.Getenv("GOOGLE_SHEET_NAME"), logger,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// New creates an Exporter for the spreadsheet with the given client options.
func New(ctx context.Context, spreadsheetID, sheetBase string, logger *log.Logger, opts ...goption.ClientOption) (*Exporter, error) {
	if logger == nil {
		logger = log.Discard()
	}
	sheetBase = strings.TrimSpace(sheetBase)
	if sheetBase == "" {
		sheetBase = defaultSheetBase
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

// serviceAccountCredentials reads GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS, in order.
func serviceAccountCredentials(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// WriteMonth replaces the month tab with the header and the rows. The tab is
// created on first use.
func (e *Exporter) WriteMonth(ctx context.Context, exp services.Export) (string, error) {
	if e.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if exp.Month == "" {
		return "", errors.New("export without month")
	}

	sheet := monthSheetName(e.sheetBase, exp.Month)
	if err := e.ensureSheet(ctx, sheet); err != nil {
		return "", err
	}

	clearRange := fmt.Sprintf("%s!A:E", sheet)
	_, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to clear sheet %s: %w", sheet, err)
	}

	values := make([][]any, 0, len(exp.Rows)+1)
	values = append(values, toAny(exp.Header))
	for _, r := range exp.Rows {
		values = append(values, toAny(r.Values()))
	}

	ref := fmt.Sprintf("%s!A1:E%d", sheet, len(values))
	_, err = e.svc.Spreadsheets.Values.Update(e.spreadsheetID, ref, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to update sheet %s: %w", sheet, err)
	}

	e.logger.InfoContext(ctx, "Month exported to sheet",
		log.FieldOperation, log.OpExport,
		log.FieldMonth, exp.Month,
		log.FieldCount, len(exp.Rows),
		"range", ref)
	return ref, nil
}

func (e *Exporter) ensureSheet(ctx context.Context, title string) error {
	ss, err := e.svc.Spreadsheets.Get(e.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := e.svc.Spreadsheets.BatchUpdate(e.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", title, err)
	}
	e.logger.InfoContext(ctx, "Created month sheet", "sheet", title)
	return nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// monthSheetName returns the tab of a month, e.g. "Transactions 03".
func monthSheetName(base, month string) string {
	return fmt.Sprintf("%s %s", strings.TrimSpace(base), month)
}
