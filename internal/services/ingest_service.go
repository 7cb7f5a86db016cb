package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"ghostfund/internal/chatlog"
	"ghostfund/internal/contacts"
	"ghostfund/internal/core"
	"ghostfund/internal/ledger"
)

var ErrNoMessages = errors.New("no chat messages found in export")

// LedgerStore is the persistence port used by the services.
type LedgerStore interface {
	LoadLedger(ctx context.Context) ([]core.DepositRow, error)
	LoadSummary(ctx context.Context) ([]core.SummaryRow, error)
	ReplaceLedger(ctx context.Context, ledger []core.DepositRow, summary []core.SummaryRow) error
}

// SyncPublisher notifies the mirror worker that an upload batch landed.
type SyncPublisher interface {
	PublishLedgerSync(ctx context.Context, batchID string, newRows int) error
}

// IngestResult summarizes a processed upload batch.
type IngestResult struct {
	BatchID      string
	NewRows      int
	TotalRows    int
	UniqueSavers int
	TotalAmount  int64
}

// IngestService turns raw chat exports into ledger rows. A single mutex
// serializes uploads, concurrent merges against the same ledger would race.
type IngestService struct {
	mu        sync.Mutex
	store     LedgerStore
	publisher SyncPublisher
}

func NewIngestService(store LedgerStore, publisher SyncPublisher) *IngestService {
	return &IngestService{store: store, publisher: publisher}
}

// Ingest parses the chat export, merges new deposits into the stored ledger
// and persists the result. The sync message is best effort, a failed publish
// never fails the upload.
func (s *IngestService) Ingest(ctx context.Context, chatText string, book *contacts.Book) (IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := chatlog.Parse(chatText)
	if len(messages) == 0 {
		return IngestResult{}, ErrNoMessages
	}

	existing, err := s.store.LoadLedger(ctx)
	if err != nil {
		return IngestResult{}, fmt.Errorf("load ledger: %w", err)
	}

	merged := ledger.Merge(existing, messages, book)

	if err := s.store.ReplaceLedger(ctx, merged.Ledger, merged.Summary); err != nil {
		return IngestResult{}, fmt.Errorf("persist ledger: %w", err)
	}

	batchID := uuid.NewString()
	result := IngestResult{
		BatchID:      batchID,
		NewRows:      merged.NewRows,
		TotalRows:    len(merged.Ledger),
		UniqueSavers: len(merged.Summary),
		TotalAmount:  totalAmount(merged.Summary),
	}

	if err := s.publishSyncMessage(ctx, batchID, result.NewRows); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"batch_id", batchID, "error", err)
		// Don't fail the request - the ledger is saved locally
	}

	slog.InfoContext(ctx, "Upload batch processed",
		"batch_id", batchID,
		"messages", len(messages),
		"new_rows", result.NewRows,
		"total_rows", result.TotalRows)

	return result, nil
}

func (s *IngestService) publishSyncMessage(ctx context.Context, batchID string, newRows int) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishLedgerSync(ctx, batchID, newRows)
}

func totalAmount(summary []core.SummaryRow) int64 {
	var total int64
	for _, row := range summary {
		total += row.Total
	}
	return total
}
