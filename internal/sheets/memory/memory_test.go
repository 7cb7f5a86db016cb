package memory

import (
	"context"
	"testing"

	"ghostfund/internal/core"
)

func TestReplaceAndLoad(t *testing.T) {
	s := New()
	ctx := context.Background()

	ledger := []core.DepositRow{{Date: "3/5/24", Time: "9:00 PM", Name: "Alice", Amount: 160}}
	summary := []core.SummaryRow{{Name: "Alice", Total: 160}}
	if err := s.ReplaceLedger(ctx, ledger, summary); err != nil {
		t.Fatalf("ReplaceLedger: %v", err)
	}

	got, err := s.LoadLedger(ctx)
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Alice" {
		t.Fatalf("unexpected ledger: %+v", got)
	}

	// Callers must not be able to mutate the stored copy.
	got[0].Name = "Mallory"
	again, _ := s.LoadLedger(ctx)
	if again[0].Name != "Alice" {
		t.Fatal("LoadLedger returned a shared slice")
	}
}

func TestWriteLedgerMirrors(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.WriteLedger(ctx, []core.DepositRow{{Name: "Bob", Amount: 50}}, nil); err != nil {
		t.Fatalf("WriteLedger: %v", err)
	}
	got, _ := s.LoadLedger(ctx)
	if len(got) != 1 || got[0].Name != "Bob" {
		t.Fatalf("unexpected mirrored ledger: %+v", got)
	}
}
