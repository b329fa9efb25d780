package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"ledger/internal/core"
)

// maxBodyBytes bounds transaction payloads.
const maxBodyBytes = 64 << 10

// transactionRequest is the create/update payload. Amount accepts both a JSON
// number and a string so form-like clients can send "12,50".
type transactionRequest struct {
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
}

// ParseDraft reads a transaction draft from a JSON body or a urlencoded form.
func ParseDraft(w http.ResponseWriter, r *http.Request) (core.Draft, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return core.Draft{}, fmt.Errorf("parse form: %w", err)
		}
		return core.Draft{
			Description: sanitizeInput(r.PostForm.Get("description")),
			Amount:      strings.TrimSpace(r.PostForm.Get("amount")),
			Date:        strings.TrimSpace(r.PostForm.Get("date")),
			Kind:        core.Kind(strings.TrimSpace(r.PostForm.Get("type"))),
		}, nil
	}

	var req transactionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && err != io.EOF {
		return core.Draft{}, fmt.Errorf("decode body: %w", err)
	}
	return core.Draft{
		Description: sanitizeInput(req.Description),
		Amount:      rawAmount(req.Amount),
		Date:        strings.TrimSpace(req.Date),
		Kind:        core.Kind(strings.TrimSpace(req.Type)),
	}, nil
}

// rawAmount returns the amount literal without JSON string quotes.
func rawAmount(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

// ParseID reads the {id} path value.
func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// MonthFromQuery returns the month selector of a list request: the "month"
// parameter, else the month of the "date" parameter, else "" for all months.
func MonthFromQuery(r *http.Request) (string, error) {
	q := r.URL.Query()
	if m := strings.TrimSpace(q.Get("month")); m != "" {
		return core.ParseMonth(m)
	}
	if d := strings.TrimSpace(q.Get("date")); d != "" {
		m, ok := core.MonthOf(d)
		if !ok {
			return "", fmt.Errorf("%w: date %q", core.ErrInvalidMonth, d)
		}
		return core.ParseMonth(m)
	}
	return "", nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
