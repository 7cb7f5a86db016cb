package memory

import (
	"context"
	"sync"

	"ghostfund/internal/core"
)

// Store is an in-memory ledger used by tests and the memory backend. It
// doubles as a mirror target so worker code can run without a spreadsheet.
type Store struct {
	mu      sync.Mutex
	ledger  []core.DepositRow
	summary []core.SummaryRow
}

func New() *Store {
	return &Store{}
}

func (s *Store) LoadLedger(_ context.Context) ([]core.DepositRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.DepositRow(nil), s.ledger...), nil
}

func (s *Store) LoadSummary(_ context.Context) ([]core.SummaryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SummaryRow(nil), s.summary...), nil
}

func (s *Store) ReplaceLedger(_ context.Context, ledger []core.DepositRow, summary []core.SummaryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append([]core.DepositRow(nil), ledger...)
	s.summary = append([]core.SummaryRow(nil), summary...)
	return nil
}

// WriteLedger implements the mirror port by replacing the stored copy.
func (s *Store) WriteLedger(ctx context.Context, ledger []core.DepositRow, summary []core.SummaryRow) error {
	return s.ReplaceLedger(ctx, ledger, summary)
}
