package services

import (
	"context"
	"fmt"
	"time"

	"ghostfund/internal/core"
	"ghostfund/internal/report"
)

// ReportService answers read-only queries against the stored ledger.
type ReportService struct {
	store LedgerStore
	loc   *time.Location
	now   func() time.Time
}

func NewReportService(store LedgerStore, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{store: store, loc: loc, now: time.Now}
}

// Ledger returns every deposit row in stored order.
func (s *ReportService) Ledger(ctx context.Context) ([]core.DepositRow, error) {
	rows, err := s.store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return rows, nil
}

// Summary returns the per-member totals table.
func (s *ReportService) Summary(ctx context.Context) ([]core.SummaryRow, error) {
	rows, err := s.store.LoadSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}
	return rows, nil
}

// AllMembers lists every saver with their total, largest first.
func (s *ReportService) AllMembers(ctx context.Context) ([]report.MemberTotals, error) {
	rows, err := s.store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return report.ListMembers(rows), nil
}

// MemberReport builds the full per-member breakdown for the given phone
// number or name.
func (s *ReportService) MemberReport(ctx context.Context, identifier string) (*report.MemberReport, error) {
	rows, err := s.store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return report.BuildMemberReport(rows, identifier, s.loc, s.now())
}
