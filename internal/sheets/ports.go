package sheets

import (
	"context"

	"ghostfund/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerMirror rewrites the externally visible copy of the ledger.
	LedgerMirror interface {
		WriteLedger(ctx context.Context, ledger []core.DepositRow, summary []core.SummaryRow) error
	}

	// ContactReader loads the saved-contact roster used to resolve senders.
	ContactReader interface {
		ReadContacts(ctx context.Context) ([]core.Contact, error)
	}
)
