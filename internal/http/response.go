package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
)

type transactionResponse struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Type        core.Kind   `json:"type"`
	Category    string      `json:"category"`
}

type summaryResponse struct {
	IncomeTotal  json.Number    `json:"incomeTotal"`
	ExpenseTotal json.Number    `json:"expenseTotal"`
	NetBalance   json.Number    `json:"netBalance"`
	Display      summaryDisplay `json:"display"`
}

// summaryDisplay carries the card values with two decimals.
type summaryDisplay struct {
	IncomeTotal  string `json:"incomeTotal"`
	ExpenseTotal string `json:"expenseTotal"`
	NetBalance   string `json:"netBalance"`
}

// draftResponse prefills the edit form of a transaction.
type draftResponse struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Date        string    `json:"date"`
	Type        core.Kind `json:"type"`
}

type categoryResponse struct {
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
}

type monthResponse struct {
	Month        string                `json:"month"`
	Summary      summaryResponse       `json:"summary"`
	Categories   []categoryResponse    `json:"categories"`
	Income       []transactionResponse `json:"income"`
	Expenses     []transactionResponse `json:"expenses"`
	Transactions []transactionResponse `json:"transactions"`
}

type exportResponse struct {
	Month  string     `json:"month"`
	Title  string     `json:"title"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func toTransaction(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      json.Number(tx.Amount.String()),
		Date:        tx.Date,
		Type:        tx.Kind(),
		Category:    tx.Category(),
	}
}

func toDraft(tx core.Transaction) draftResponse {
	d := core.DraftFrom(tx)
	return draftResponse{ID: tx.ID, Description: d.Description, Amount: d.Amount, Date: d.Date, Type: d.Kind}
}

func toTransactions(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransaction(tx))
	}
	return out
}

func toMonth(v services.MonthView) monthResponse {
	cats := make([]categoryResponse, 0, len(v.Categories))
	for _, c := range v.Categories {
		cats = append(cats, categoryResponse{Name: c.Name, Amount: json.Number(c.Amount.String())})
	}
	return monthResponse{
		Month: v.Month,
		Summary: summaryResponse{
			IncomeTotal:  json.Number(v.Summary.IncomeTotal.String()),
			ExpenseTotal: json.Number(v.Summary.ExpenseTotal.String()),
			NetBalance:   json.Number(v.Summary.NetBalance.String()),
			Display: summaryDisplay{
				IncomeTotal:  core.FormatFixed(v.Summary.IncomeTotal),
				ExpenseTotal: core.FormatFixed(v.Summary.ExpenseTotal),
				NetBalance:   core.FormatFixed(v.Summary.NetBalance),
			},
		},
		Categories:   cats,
		Income:       toTransactions(v.Income),
		Expenses:     toTransactions(v.Expenses),
		Transactions: toTransactions(v.Transactions),
	}
}

func toExport(e services.Export) exportResponse {
	rows := make([][]string, 0, len(e.Rows))
	for _, r := range e.Rows {
		rows = append(rows, r.Values())
	}
	return exportResponse{Month: e.Month, Title: e.Title, Header: e.Header, Rows: rows}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes. Unknown errors are logged
// and reported as 500 without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: core.ErrValidation.Error(), Reason: ve.Reason.Error()})
	case errors.Is(err, core.ErrInvalidMonth):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: core.ErrNotFound.Error()})
	case errors.Is(err, core.ErrEmptyExportSet):
		writeJSON(w, http.StatusConflict, errorResponse{Error: core.ErrEmptyExportSet.Error()})
	case errors.Is(err, core.ErrPersistence):
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Persistence failure", log.FieldError, err.Error())
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: core.ErrPersistence.Error()})
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
