// Package memory provides an in-memory LedgerAppender for tests and local
// development without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"kakeibo/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []sheets.LedgerRow
}

var _ sheets.LedgerAppender = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, row sheets.LedgerRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, row)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []sheets.LedgerRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.LedgerRow(nil), s.items...)
}
