package memory

import (
	"context"
	"fmt"
	"sync"

	"ledger/internal/services"
	ports "ledger/internal/sheets"
)

var _ ports.ExportWriter = (*Store)(nil)

// Store keeps the last published table of every month in memory.
type Store struct {
	mu     sync.Mutex
	months map[string][][]string
	writes int
}

func New() *Store {
	return &Store{months: make(map[string][][]string)}
}

// WriteMonth stores the header followed by the rows.
func (s *Store) WriteMonth(_ context.Context, exp services.Export) (string, error) {
	if exp.Month == "" {
		return "", fmt.Errorf("export without month")
	}
	values := make([][]string, 0, len(exp.Rows)+1)
	values = append(values, append([]string(nil), exp.Header...))
	for _, r := range exp.Rows {
		values = append(values, r.Values())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[exp.Month] = values
	s.writes++
	return fmt.Sprintf("memory:%s!A1:E%d", exp.Month, len(values)), nil
}

// Month returns the published table of month, header first.
func (s *Store) Month(month string) ([][]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.months[month]
	return v, ok
}

// Writes counts successful WriteMonth calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
