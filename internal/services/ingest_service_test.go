package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ghostfund/internal/contacts"
	"ghostfund/internal/core"
	"ghostfund/internal/report"
	"ghostfund/internal/sheets/memory"
)

type recordingPublisher struct {
	batchIDs []string
	newRows  []int
	err      error
}

func (p *recordingPublisher) PublishLedgerSync(_ context.Context, batchID string, newRows int) error {
	if p.err != nil {
		return p.err
	}
	p.batchIDs = append(p.batchIDs, batchID)
	p.newRows = append(p.newRows, newRows)
	return nil
}

const sampleChat = "3/5/24, 9:15 PM - Rahim: I saved 100 tk today\n" +
	"3/6/24, 8:00 AM - Karim: Tk. 250 put aside\n" +
	"3/6/24, 8:05 AM - Rahim: hello everyone\n"

func newBook(t *testing.T) *contacts.Book {
	t.Helper()
	return contacts.NewBook([]contacts.Entry{
		{SavedName: "Rahim", Phone: "+8801711111111"},
		{SavedName: "Karim", Phone: "+8801722222222"},
	})
}

func TestIngestAddsRowsAndPublishes(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{}
	svc := NewIngestService(store, pub)

	res, err := svc.Ingest(context.Background(), sampleChat, newBook(t))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.NewRows != 2 {
		t.Fatalf("NewRows = %d, want 2", res.NewRows)
	}
	if res.TotalRows != 2 {
		t.Fatalf("TotalRows = %d, want 2", res.TotalRows)
	}
	if res.UniqueSavers != 2 {
		t.Fatalf("UniqueSavers = %d, want 2", res.UniqueSavers)
	}
	if res.TotalAmount != 350 {
		t.Fatalf("TotalAmount = %d, want 350", res.TotalAmount)
	}
	if res.BatchID == "" {
		t.Fatal("BatchID should be set")
	}

	if len(pub.batchIDs) != 1 || pub.batchIDs[0] != res.BatchID {
		t.Fatalf("publisher saw batches %v, want [%s]", pub.batchIDs, res.BatchID)
	}
	if pub.newRows[0] != 2 {
		t.Fatalf("published new_rows = %d, want 2", pub.newRows[0])
	}

	rows, _ := store.LoadLedger(context.Background())
	if len(rows) != 2 {
		t.Fatalf("stored ledger has %d rows, want 2", len(rows))
	}
}

func TestIngestSecondUploadIsIdempotentUpToCutoff(t *testing.T) {
	store := memory.New()
	svc := NewIngestService(store, nil)
	ctx := context.Background()

	if _, err := svc.Ingest(ctx, sampleChat, newBook(t)); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	res, err := svc.Ingest(ctx, sampleChat, newBook(t))
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if res.NewRows != 0 {
		t.Fatalf("second upload added %d rows, want 0", res.NewRows)
	}
	if res.TotalRows != 2 {
		t.Fatalf("TotalRows after re-upload = %d, want 2", res.TotalRows)
	}
}

func TestIngestRejectsEmptyExport(t *testing.T) {
	svc := NewIngestService(memory.New(), nil)
	_, err := svc.Ingest(context.Background(), "just some notes\nwith no timestamps", newBook(t))
	if !errors.Is(err, ErrNoMessages) {
		t.Fatalf("err = %v, want ErrNoMessages", err)
	}
}

func TestIngestSurvivesPublishFailure(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewIngestService(store, pub)

	res, err := svc.Ingest(context.Background(), sampleChat, newBook(t))
	if err != nil {
		t.Fatalf("Ingest should not fail on publish error: %v", err)
	}
	if res.NewRows != 2 {
		t.Fatalf("NewRows = %d, want 2", res.NewRows)
	}
	rows, _ := store.LoadLedger(context.Background())
	if len(rows) != 2 {
		t.Fatal("ledger should be persisted despite publish failure")
	}
}

func TestReportServiceMemberLookup(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	_ = store.ReplaceLedger(ctx, []core.DepositRow{
		{Date: "3/5/24", Time: "9:15 PM", Name: "Rahim", Phone: "+8801711111111", Amount: 100, HowSaved: "I saved 100 tk today"},
		{Date: "3/6/24", Time: "8:00 AM", Name: "Karim", Phone: "+8801722222222", Amount: 250, HowSaved: "Tk. 250 put aside"},
	}, []core.SummaryRow{
		{Name: "Karim", Phone: "+8801722222222", Total: 250},
		{Name: "Rahim", Phone: "+8801711111111", Total: 100},
	})

	svc := NewReportService(store, time.UTC)

	rep, err := svc.MemberReport(ctx, "+8801711111111")
	if err != nil {
		t.Fatalf("MemberReport: %v", err)
	}
	if rep.Name != "Rahim" || len(rep.Records) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	if _, err := svc.MemberReport(ctx, "Nobody"); !errors.Is(err, report.ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}

	members, err := svc.AllMembers(ctx)
	if err != nil {
		t.Fatalf("AllMembers: %v", err)
	}
	if len(members) != 2 || members[0].Name != "Karim" {
		t.Fatalf("AllMembers should sort by total desc, got %+v", members)
	}
}
