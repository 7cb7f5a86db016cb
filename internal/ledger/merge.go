// Package ledger combines newly parsed deposit candidates with the
// previously persisted ledger.
package ledger

import (
	"sort"
	"strings"
	"time"

	"ghostfund/internal/classify"
	"ghostfund/internal/contacts"
	"ghostfund/internal/core"
)

// MergeResult is the outcome of one merge: the full updated ledger, the
// regenerated per-contact summary, and how many rows the merge appended.
type MergeResult struct {
	Ledger  []core.DepositRow
	Summary []core.SummaryRow
	NewRows int
}

// Merge filters candidate messages into deposit rows and appends them to the
// existing ledger. Rows already present are never reordered or dropped. The
// cutoff date (the latest parseable date in the existing ledger) is the sole
// deduplication mechanism: a candidate dated on or before it is assumed to
// belong to an already-recorded period and is skipped. Candidates whose date
// does not parse are not held against the cutoff.
func Merge(existing []core.DepositRow, candidates []core.Message, book *contacts.Book) MergeResult {
	cutoff, hasCutoff := CutoffDate(existing)

	var fresh []core.DepositRow
	for _, msg := range candidates {
		if strings.TrimSpace(msg.Sender) == "" {
			continue
		}
		if hasCutoff {
			if d, err := core.ParseDate(msg.Date); err == nil && !d.After(cutoff) {
				continue
			}
		}
		if !classify.IsSavingMessage(msg.Text) {
			continue
		}
		amount, ok := classify.ExtractAmount(msg.Text)
		if !ok || amount <= 0 {
			continue
		}

		contact := book.Resolve(msg.Sender)
		fresh = append(fresh, core.DepositRow{
			Date:     msg.Date,
			Time:     msg.Time,
			Name:     contact.Name,
			Phone:    contact.Phone,
			Amount:   amount,
			HowSaved: msg.Text,
		})
	}

	sortRowsDescending(fresh)

	merged := make([]core.DepositRow, 0, len(existing)+len(fresh))
	merged = append(merged, existing...)
	merged = append(merged, fresh...)

	return MergeResult{
		Ledger:  merged,
		Summary: Summarize(merged),
		NewRows: len(fresh),
	}
}

// CutoffDate returns the maximum parseable date in the ledger. ok is false
// for an empty ledger or one whose dates all fail to parse (first-run
// state).
func CutoffDate(rows []core.DepositRow) (cutoff time.Time, ok bool) {
	for _, r := range rows {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			continue
		}
		if !ok || d.After(cutoff) {
			cutoff = d
			ok = true
		}
	}
	return cutoff, ok
}

// Summarize regroups the entire ledger into per-contact totals. The output
// is sorted (name asc, phone asc) so persisted summaries are deterministic.
func Summarize(rows []core.DepositRow) []core.SummaryRow {
	type key struct{ name, phone string }
	totals := make(map[key]int64)
	order := make([]key, 0)
	for _, r := range rows {
		k := key{r.Name, r.Phone}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += r.Amount
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].name != order[j].name {
			return order[i].name < order[j].name
		}
		return order[i].phone < order[j].phone
	})

	out := make([]core.SummaryRow, 0, len(order))
	for _, k := range order {
		out = append(out, core.SummaryRow{Name: k.name, Phone: k.phone, Total: totals[k]})
	}
	return out
}

// sortRowsDescending orders new rows by (date desc, time desc). Unparsable
// dates or times sort as earliest, which places them at the tail of the
// descending block; the sort is stable so equal keys keep arrival order.
func sortRowsDescending(rows []core.DepositRow) {
	type sortKey struct {
		date  time.Time
		clock time.Time
	}
	keys := make([]sortKey, len(rows))
	for i, r := range rows {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			d = time.Time{}
		}
		c, err := core.ParseClock(r.Time)
		if err != nil {
			c = time.Time{}
		}
		keys[i] = sortKey{date: d, clock: c}
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if !ka.date.Equal(kb.date) {
			return ka.date.After(kb.date)
		}
		return ka.clock.After(kb.clock)
	})

	sorted := make([]core.DepositRow, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	copy(rows, sorted)
}
