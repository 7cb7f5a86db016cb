package report

import (
	"testing"
	"time"

	"ghostfund/internal/core"
)

func dhaka(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestWeekRange(t *testing.T) {
	loc := dhaka(t)

	// 3/5/24 is a Tuesday; its week runs Friday 3/1 through Thursday 3/7.
	tue := time.Date(2024, 3, 5, 12, 0, 0, 0, loc)
	start, end := WeekRange(tue, loc)
	if start.Weekday() != time.Friday || end.Weekday() != time.Thursday {
		t.Fatalf("weekdays: start=%v end=%v", start.Weekday(), end.Weekday())
	}
	if start.Day() != 1 || end.Day() != 7 {
		t.Fatalf("range: %v .. %v", start, end)
	}
	if start.Hour() != 0 || end.Hour() != 23 || end.Minute() != 59 {
		t.Fatalf("bounds: %v .. %v", start, end)
	}

	// A Friday belongs to the week it starts.
	fri := time.Date(2024, 3, 8, 0, 30, 0, 0, loc)
	start, end = WeekRange(fri, loc)
	if start.Day() != 8 || end.Day() != 14 {
		t.Fatalf("friday range: %v .. %v", start, end)
	}

	// A Thursday belongs to the week it ends.
	thu := time.Date(2024, 3, 7, 23, 0, 0, 0, loc)
	start, _ = WeekRange(thu, loc)
	if start.Day() != 1 {
		t.Fatalf("thursday start: %v", start)
	}
}

func TestBuildMemberReportErrors(t *testing.T) {
	loc := dhaka(t)
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, loc)

	if _, err := BuildMemberReport(nil, "Alice", loc, now); err != ErrLedgerEmpty {
		t.Fatalf("expected ErrLedgerEmpty, got %v", err)
	}
	rows := []core.DepositRow{{Date: "3/5/24", Time: "9:00 PM", Name: "Bob", Amount: 10}}
	if _, err := BuildMemberReport(rows, "Alice", loc, now); err != ErrMemberNotFound {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestBuildMemberReportAggregates(t *testing.T) {
	loc := dhaka(t)
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, loc)
	rows := []core.DepositRow{
		{Date: "3/5/24", Time: "9:00 PM", Name: "Alice", Phone: "p1", Amount: 160, HowSaved: "Saved 160 Tk"},
		{Date: "3/8/24", Time: "8:00 AM", Name: "alice", Phone: "p1", Amount: 80, HowSaved: "80 tk"},
		{Date: "12/30/23", Time: "1:00 PM", Name: "Alice", Phone: "p1", Amount: 50, HowSaved: "50 tk"},
		{Date: "3/6/24", Time: "9:00 PM", Name: "Bob", Phone: "p2", Amount: 999, HowSaved: "999 tk"},
	}

	rep, err := BuildMemberReport(rows, "p1", loc, now)
	if err != nil {
		t.Fatalf("BuildMemberReport: %v", err)
	}
	if len(rep.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(rep.Records))
	}
	// Sorted latest first.
	if !rep.Records[0].Timestamp.After(rep.Records[1].Timestamp) {
		t.Fatalf("records not descending: %v", rep.Records)
	}
	if rep.Monthly["March 2024"] != 240 || rep.Monthly["December 2023"] != 50 {
		t.Fatalf("monthly = %v", rep.Monthly)
	}
	if rep.Yearly["2024"] != 240 || rep.Yearly["2023"] != 50 {
		t.Fatalf("yearly = %v", rep.Yearly)
	}
	if rep.Name != "Alice" || rep.Phone != "p1" {
		t.Fatalf("identity: %q %q", rep.Name, rep.Phone)
	}
}

func TestWeekBucketsContiguousAndExclusive(t *testing.T) {
	loc := dhaka(t)
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, loc)
	rows := []core.DepositRow{
		{Date: "3/1/24", Time: "12:05 AM", Name: "Alice", Phone: "p1", Amount: 10}, // Friday, week start
		{Date: "3/7/24", Time: "11:30 PM", Name: "Alice", Phone: "p1", Amount: 20}, // Thursday, week end
		{Date: "3/8/24", Time: "12:10 AM", Name: "Alice", Phone: "p1", Amount: 30}, // next Friday
	}
	rep, err := BuildMemberReport(rows, "p1", loc, now)
	if err != nil {
		t.Fatalf("BuildMemberReport: %v", err)
	}

	if len(rep.Weeks) == 0 {
		t.Fatal("no week buckets")
	}
	// Newest first, contiguous, 7 days each, no overlap.
	for i := 0; i < len(rep.Weeks)-1; i++ {
		newer, older := rep.Weeks[i], rep.Weeks[i+1]
		if !newer.Start.After(older.Start) {
			t.Fatalf("weeks not newest-first at %d", i)
		}
		if got := newer.Start.Sub(older.Start); got != 7*24*time.Hour {
			t.Fatalf("weeks not contiguous at %d: %v", i, got)
		}
		if !older.End.Before(newer.Start) {
			t.Fatalf("weeks overlap at %d", i)
		}
	}

	// Every record lands in exactly one bucket; the Friday record is in the
	// same bucket as that week's Thursday record, not the prior week.
	var placed int
	var firstWeek, secondWeek *WeekBucket
	for i := range rep.Weeks {
		placed += len(rep.Weeks[i].Records)
		for _, r := range rep.Weeks[i].Records {
			switch r.Amount {
			case 10, 20:
				firstWeek = &rep.Weeks[i]
			case 30:
				secondWeek = &rep.Weeks[i]
			}
		}
	}
	if placed != 3 {
		t.Fatalf("placed %d records, want 3", placed)
	}
	if firstWeek == nil || secondWeek == nil || firstWeek == secondWeek {
		t.Fatalf("bucket assignment wrong: first=%v second=%v", firstWeek, secondWeek)
	}
	if firstWeek.Total != 30 || secondWeek.Total != 30 {
		t.Fatalf("totals: %d, %d", firstWeek.Total, secondWeek.Total)
	}
}

func TestUnparsableTimestampFallsBackToNow(t *testing.T) {
	loc := dhaka(t)
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, loc)
	rows := []core.DepositRow{
		{Date: "junk", Time: "junk", Name: "Alice", Phone: "p1", Amount: 10},
	}
	rep, err := BuildMemberReport(rows, "p1", loc, now)
	if err != nil {
		t.Fatalf("BuildMemberReport: %v", err)
	}
	if !rep.Records[0].Unparsed {
		t.Fatal("expected Unparsed flag")
	}
	if !rep.Records[0].Timestamp.Equal(now) {
		t.Fatalf("timestamp = %v, want %v", rep.Records[0].Timestamp, now)
	}
	// The fallback instant still lands in the current week bucket.
	if len(rep.Weeks) == 0 || rep.Weeks[0].Total != 10 {
		t.Fatalf("weeks = %+v", rep.Weeks)
	}
}

func TestListMembers(t *testing.T) {
	rows := []core.DepositRow{
		{Name: "Alice", Phone: "p1", Amount: 160},
		{Name: "Alice", Phone: "p1", Amount: 40},
		{Name: "Bob", Phone: "", Amount: 500},
		{Name: "", Phone: "p3", Amount: 5},
	}
	list := ListMembers(rows)
	if len(list) != 3 {
		t.Fatalf("expected 3 members, got %d", len(list))
	}
	if list[0].Name != "Bob" || list[0].Identifier != "Bob" || list[0].Total != 500 {
		t.Fatalf("unexpected top member: %+v", list[0])
	}
	if list[1].Name != "Alice" || list[1].Identifier != "p1" || list[1].Count != 2 || list[1].Total != 200 {
		t.Fatalf("unexpected member: %+v", list[1])
	}
	if list[2].Name != "p3" || list[2].Identifier != "p3" {
		t.Fatalf("unexpected member: %+v", list[2])
	}
}
