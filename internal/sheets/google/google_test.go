package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"

	"ledger/internal/core"
	"ledger/internal/services"
)

type call struct {
	method string
	path   string
	body   string
}

// fakeSheetsAPI answers the subset of the Sheets v4 API the exporter uses.
type fakeSheetsAPI struct {
	mu     sync.Mutex
	sheets []string
	calls  []call
}

type props struct {
	Title string `json:"title"`
}

type sheetEntry struct {
	Properties props `json:"properties"`
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{r.Method, r.URL.Path, string(body)})

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet:
		resp := struct {
			Sheets []sheetEntry `json:"sheets"`
		}{}
		for _, s := range f.sheets {
			resp.Sheets = append(resp.Sheets, sheetEntry{props{s}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		var req struct {
			Requests []struct {
				AddSheet struct {
					Properties props `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		_ = json.Unmarshal(body, &req)
		for _, rq := range req.Requests {
			f.sheets = append(f.sheets, rq.AddSheet.Properties.Title)
		}
		_, _ = w.Write([]byte(`{}`))
	default:
		_, _ = w.Write([]byte(`{}`))
	}
}

func newTestExporter(t *testing.T, api http.Handler) *Exporter {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	e, err := New(context.Background(), "sheet-id", "", nil,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	require.NoError(t, err)
	return e
}

func sampleExport() services.Export {
	txs := []core.Transaction{
		{ID: 1, Description: "Salary", Amount: decimal.NewFromInt(5000), Date: "2024-03-01"},
		{ID: 2, Description: "Rent", Amount: decimal.NewFromInt(-1250), Date: "2024-03-05"},
	}
	exp, _ := services.BuildExport(txs, "03")
	return exp
}

func TestWriteMonthCreatesSheetAndWritesRows(t *testing.T) {
	api := &fakeSheetsAPI{}
	e := newTestExporter(t, api)

	ref, err := e.WriteMonth(context.Background(), sampleExport())
	require.NoError(t, err)
	assert.Equal(t, "Transactions 03!A1:E3", ref)
	assert.Equal(t, []string{"Transactions 03"}, api.sheets)

	require.Len(t, api.calls, 4)
	assert.Equal(t, http.MethodGet, api.calls[0].method)
	assert.True(t, strings.HasSuffix(api.calls[1].path, ":batchUpdate"))
	assert.True(t, strings.HasSuffix(api.calls[2].path, ":clear"))
	assert.Equal(t, http.MethodPut, api.calls[3].method)

	var vr struct {
		Values [][]string `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(api.calls[3].body), &vr))
	assert.Equal(t, [][]string{
		core.ExportHeader,
		{"1", "2024-03-01", "Salary", "5,000", "Income"},
		{"2", "2024-03-05", "Rent", "-1,250", "Expense"},
	}, vr.Values)
}

func TestWriteMonthReusesExistingSheet(t *testing.T) {
	api := &fakeSheetsAPI{sheets: []string{"Transactions 03"}}
	e := newTestExporter(t, api)

	_, err := e.WriteMonth(context.Background(), sampleExport())
	require.NoError(t, err)
	require.Len(t, api.calls, 3)
	for _, c := range api.calls {
		assert.False(t, strings.HasSuffix(c.path, ":batchUpdate"))
	}
}

func TestWriteMonthAPIError(t *testing.T) {
	e := newTestExporter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}))

	_, err := e.WriteMonth(context.Background(), sampleExport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read spreadsheet")
}

func TestWriteMonthWithoutMonth(t *testing.T) {
	e := newTestExporter(t, &fakeSheetsAPI{})
	_, err := e.WriteMonth(context.Background(), services.Export{})
	assert.Error(t, err)
}

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	_, err := NewFromEnv(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "missing GOOGLE_SPREADSHEET_ID", err.Error())
}

func TestNewFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "test-id")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewFromEnv(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")
}

func TestServiceAccountCredentialsFromFile(t *testing.T) {
	path := t.TempDir() + "/sa.json"
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600))
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", path)

	data, err := serviceAccountCredentials(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(data))
}

func TestMonthSheetName(t *testing.T) {
	assert.Equal(t, "Transactions 03", monthSheetName("Transactions", "03"))
	assert.Equal(t, "Ledger 12", monthSheetName(" Ledger ", "12"))
}
