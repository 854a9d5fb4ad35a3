package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"budgetly/internal/core"
	ports "budgetly/internal/sheets"
)

var _ ports.LedgerWriter = (*Store)(nil)

// Store keeps ledger rows in process. The worker falls back to it when no
// spreadsheet is configured.
type Store struct {
	mu      sync.Mutex
	entries []core.LedgerEntry
}

func New() *Store {
	return &Store{}
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, entry core.LedgerEntry) (string, error) {
	if !entry.Action.Valid() {
		return "", fmt.Errorf("invalid ledger action %q", entry.Action)
	}
	if entry.ExpenseID == "" {
		return "", errors.New("ledger entry without expense id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return fmt.Sprintf("mem:%d", len(s.entries)), nil
}

// Entries returns a copy of the appended rows in order.
func (s *Store) Entries() []core.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.LedgerEntry(nil), s.entries...)
}
