package amqp

import (
	"encoding/json"
	"time"
)

// LedgerSyncMessage tells the mirror worker that an upload batch changed the
// ledger. It carries only identifiers, the worker reloads the full ledger
// from the database before mirroring.
type LedgerSyncMessage struct {
	BatchID   string    `json:"batch_id"`
	NewRows   int       `json:"new_rows"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerSyncMessage(batchID string, newRows int) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		BatchID:   batchID,
		NewRows:   newRows,
		Timestamp: time.Now(),
	}
}

func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
