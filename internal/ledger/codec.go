package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// record is the persisted shape of a transaction. Type is written for
// readers of the blob but ignored on decode, where it is re-derived from
// the amount.
type record struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Type        core.Kind   `json:"type"`
}

// Encode serializes the ledger as a JSON array, preserving order.
func Encode(txs []core.Transaction) (string, error) {
	records := make([]record, 0, len(txs))
	for _, tx := range txs {
		records = append(records, record{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      json.Number(tx.Amount.String()),
			Date:        tx.Date,
			Type:        tx.Kind(),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode ledger: %w", err)
	}
	return string(data), nil
}

// Decode parses a blob produced by Encode (or by older clients that stored
// the same five fields).
func Decode(blob string) ([]core.Transaction, error) {
	var records []record
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	txs := make([]core.Transaction, 0, len(records))
	for i, r := range records {
		amount, err := decimal.NewFromString(string(r.Amount))
		if err != nil {
			return nil, fmt.Errorf("decode ledger: record %d amount %q: %w", i, r.Amount, err)
		}
		txs = append(txs, core.Transaction{
			ID:          r.ID,
			Description: r.Description,
			Amount:      amount,
			Date:        r.Date,
		})
	}
	return txs, nil
}
