package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerSyncMessage(t *testing.T) {
	msg := NewLedgerSyncMessage("batch-1", 7)

	if msg.BatchID != "batch-1" {
		t.Errorf("NewLedgerSyncMessage() BatchID = %v, want batch-1", msg.BatchID)
	}
	if msg.NewRows != 7 {
		t.Errorf("NewLedgerSyncMessage() NewRows = %v, want 7", msg.NewRows)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewLedgerSyncMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewLedgerSyncMessage() Timestamp should be recent")
	}
}

func TestLedgerSyncMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &LedgerSyncMessage{
		BatchID:   "0f8fad5b-d9cb-469f-a165-70867728950e",
		NewRows:   3,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := LedgerSyncMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("LedgerSyncMessageFromJSON() error = %v", err)
	}

	if parsedMsg.BatchID != msg.BatchID {
		t.Errorf("Parsed BatchID = %v, want %v", parsedMsg.BatchID, msg.BatchID)
	}
	if parsedMsg.NewRows != msg.NewRows {
		t.Errorf("Parsed NewRows = %v, want %v", parsedMsg.NewRows, msg.NewRows)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestLedgerSyncMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"batch_id": 42, "new_rows": "many"}`)

	if _, err := LedgerSyncMessageFromJSON(invalidJSON); err == nil {
		t.Error("LedgerSyncMessageFromJSON() should fail with invalid JSON")
	}
}
