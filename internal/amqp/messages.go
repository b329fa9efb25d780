package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage announces a flushed mutation. It carries only the
// affected id and month; consumers read the ledger from the blob store.
type LedgerChangedMessage struct {
	Operation string    `json:"operation"`
	ID        int64     `json:"id"`
	Month     string    `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(operation string, id int64, month string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Operation: operation,
		ID:        id,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON parses a message body
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
