package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ghostfund/internal/amqp"
	"ghostfund/internal/services"
	"ghostfund/internal/sheets"
)

// MirrorWorker keeps the spreadsheet copy of the ledger in step with the
// database. Every sync message triggers a full rewrite of the mirror, the
// ledger is small enough that partial updates are not worth the bookkeeping.
type MirrorWorker struct {
	store  services.LedgerStore
	mirror sheets.LedgerMirror
}

func NewMirrorWorker(store services.LedgerStore, mirror sheets.LedgerMirror) *MirrorWorker {
	return &MirrorWorker{store: store, mirror: mirror}
}

// HandleSyncMessage processes a single ledger sync message from AMQP.
func (w *MirrorWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"batch_id", msg.BatchID,
		"new_rows", msg.NewRows)

	if err := w.MirrorOnce(ctx); err != nil {
		return fmt.Errorf("mirror batch %s: %w", msg.BatchID, err)
	}
	return nil
}

// MirrorOnce reloads the ledger from the store and rewrites the mirror.
// Called on startup as a catch-up in case sync messages were lost.
func (w *MirrorWorker) MirrorOnce(ctx context.Context) error {
	ledger, err := w.store.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	summary, err := w.store.LoadSummary(ctx)
	if err != nil {
		return fmt.Errorf("load summary: %w", err)
	}

	if err := w.mirror.WriteLedger(ctx, ledger, summary); err != nil {
		return fmt.Errorf("write mirror: %w", err)
	}

	slog.InfoContext(ctx, "Ledger mirror updated",
		"ledger_rows", len(ledger),
		"summary_rows", len(summary))
	return nil
}
