// Package report computes per-member and group aggregates over the
// persisted ledger: sorted records, monthly and yearly totals, and
// Friday-through-Thursday week buckets in a fixed timezone.
package report

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"ghostfund/internal/core"
)

// DefaultTimezone is the zone all report instants are computed in.
const DefaultTimezone = "Asia/Dhaka"

var (
	// ErrLedgerEmpty means nothing has ever been recorded.
	ErrLedgerEmpty = errors.New("ledger is empty")
	// ErrMemberNotFound means the ledger has data but none for this member.
	ErrMemberNotFound = errors.New("member not found")
)

type (
	// Record is one deposit with its timezone-aware instant. Unparsed marks
	// rows whose date/time failed to parse and were filed under the
	// aggregation's wall-clock instant instead (documented lossy fallback).
	Record struct {
		Timestamp time.Time `json:"datetime"`
		Amount    int64     `json:"amount"`
		HowSaved  string    `json:"howSaved"`
		Unparsed  bool      `json:"unparsed,omitempty"`
	}

	// WeekBucket is a fixed Friday-through-Thursday accumulation window.
	WeekBucket struct {
		Start   time.Time `json:"start"`
		End     time.Time `json:"end"`
		Records []Record  `json:"records"`
		Total   int64     `json:"total"`
	}

	// MemberReport is the full per-member view served to dashboards.
	MemberReport struct {
		Identifier string           `json:"identifier"`
		Name       string           `json:"name"`
		Phone      string           `json:"phone"`
		Records    []Record         `json:"records"`
		Monthly    map[string]int64 `json:"monthly"`
		Yearly     map[string]int64 `json:"yearly"`
		Weeks      []WeekBucket     `json:"weeks"`
	}

	// MemberTotals is one row of the all-members listing.
	MemberTotals struct {
		Name       string `json:"name"`
		Identifier string `json:"identifier"`
		Count      int    `json:"count"`
		Total      int64  `json:"total"`
	}
)

// BuildMemberReport aggregates every ledger row belonging to the identifier
// (phone matched exactly, name matched case-insensitively). now anchors the
// final week bucket and the unparsable-timestamp fallback; it is shifted
// into loc before use.
func BuildMemberReport(rows []core.DepositRow, identifier string, loc *time.Location, now time.Time) (*MemberReport, error) {
	if len(rows) == 0 {
		return nil, ErrLedgerEmpty
	}
	now = now.In(loc)

	var matched []core.DepositRow
	for _, r := range rows {
		if r.Phone == identifier || strings.EqualFold(r.Name, identifier) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, ErrMemberNotFound
	}

	records := make([]Record, 0, len(matched))
	for _, r := range matched {
		ts, err := core.ParseDateTimeIn(r.Date, r.Time, loc)
		rec := Record{Timestamp: ts, Amount: r.Amount, HowSaved: r.HowSaved}
		if err != nil {
			rec.Timestamp = now
			rec.Unparsed = true
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	monthly := make(map[string]int64)
	yearly := make(map[string]int64)
	for _, rec := range records {
		monthly[rec.Timestamp.Format("January 2006")] += rec.Amount
		yearly[strconv.Itoa(rec.Timestamp.Year())] += rec.Amount
	}

	first := matched[0]
	rep := &MemberReport{
		Identifier: identifier,
		Name:       first.Name,
		Phone:      first.Phone,
		Records:    records,
		Monthly:    monthly,
		Yearly:     yearly,
		Weeks:      buildWeeks(records, loc, now),
	}
	if rep.Name == "" {
		rep.Name = "Unknown"
	}
	return rep, nil
}

// buildWeeks lays out contiguous Friday-through-Thursday buckets from the
// week holding the earliest record through the week holding now, newest
// first, and files each record into the single bucket containing it.
func buildWeeks(records []Record, loc *time.Location, now time.Time) []WeekBucket {
	if len(records) == 0 {
		return nil
	}

	earliest := records[0].Timestamp
	for _, rec := range records[1:] {
		if rec.Timestamp.Before(earliest) {
			earliest = rec.Timestamp
		}
	}

	firstStart, _ := WeekRange(earliest, loc)
	_, lastEnd := WeekRange(now, loc)

	var weeks []WeekBucket
	for cursor := firstStart; !cursor.After(lastEnd); cursor = addDays(cursor, 7, loc) {
		_, end := WeekRange(cursor, loc)
		weeks = append(weeks, WeekBucket{Start: cursor, End: end})
	}
	// Latest week first.
	for i, j := 0, len(weeks)-1; i < j; i, j = i+1, j-1 {
		weeks[i], weeks[j] = weeks[j], weeks[i]
	}

	for _, rec := range records {
		for i := range weeks {
			if !rec.Timestamp.Before(weeks[i].Start) && !rec.Timestamp.After(weeks[i].End) {
				weeks[i].Records = append(weeks[i].Records, rec)
				weeks[i].Total += rec.Amount
				break
			}
		}
	}
	return weeks
}

// WeekRange returns the Friday 00:00:00 start and Thursday
// 23:59:59.999999999 end of the week containing t, in loc.
func WeekRange(t time.Time, loc *time.Location) (start, end time.Time) {
	t = t.In(loc)
	daysToThursday := (int(time.Thursday) - int(t.Weekday()) + 7) % 7
	endDay := addDays(t, daysToThursday, loc)
	end = time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 999999999, loc)
	startDay := addDays(end, -6, loc)
	start = time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, loc)
	return start, end
}

// addDays shifts by whole calendar days, keeping the wall clock.
func addDays(t time.Time, days int, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day()+days, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// ListMembers groups the whole ledger per (name, phone) identity and returns
// one listing row each, sorted by total descending.
func ListMembers(rows []core.DepositRow) []MemberTotals {
	type key struct{ name, phone string }
	type agg struct {
		count int
		total int64
	}
	totals := make(map[key]*agg)
	order := make([]key, 0)
	for _, r := range rows {
		k := key{r.Name, r.Phone}
		a, seen := totals[k]
		if !seen {
			a = &agg{}
			totals[k] = a
			order = append(order, k)
		}
		a.count++
		a.total += r.Amount
	}

	out := make([]MemberTotals, 0, len(order))
	for _, k := range order {
		name := k.name
		if name == "" {
			name = k.phone
		}
		if name == "" {
			name = "Unknown"
		}
		identifier := k.phone
		if identifier == "" {
			identifier = k.name
		}
		out = append(out, MemberTotals{
			Name:       name,
			Identifier: identifier,
			Count:      totals[k].count,
			Total:      totals[k].total,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
