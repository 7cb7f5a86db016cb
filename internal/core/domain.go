package core

import (
	"errors"
	"strings"
	"time"
)

// Date and time layouts used by the chat export format. Dates carry a
// two-digit year and 1-2 digit day/month ("3/5/24"); times carry a 12-hour
// clock with an AM/PM marker ("9:00 PM").
const (
	DateLayout = "1/2/06"
	TimeLayout = "3:04 PM"
)

type (
	// Message is one logical chat message reconstructed from the export
	// text. Sender is empty for system lines and group notifications; such
	// messages are never eligible to become deposits.
	Message struct {
		Date   string
		Time   string
		Sender string
		Text   string
	}

	// Contact is a canonical member identity resolved from the address book.
	Contact struct {
		Name  string
		Phone string
	}

	// DepositRow is one accepted savings entry attributed to a member.
	// HowSaved keeps the original message text for audit and reporting.
	DepositRow struct {
		Date     string
		Time     string
		Name     string
		Phone    string
		Amount   int64
		HowSaved string
	}

	// SummaryRow is the per-contact total, always regenerated in full from
	// the ledger.
	SummaryRow struct {
		Name  string
		Phone string
		Total int64
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyDate     = errors.New("empty date")
	ErrEmptyName     = errors.New("empty name")
)

// ParseDate parses an export-format calendar date ("3/5/24").
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ParseClock parses an export-format clock time ("9:00 PM").
func ParseClock(s string) (time.Time, error) {
	return time.Parse(TimeLayout, strings.ToUpper(strings.TrimSpace(s)))
}

// ParseDateTimeIn combines a date string and a time string into a single
// instant in the given location.
func ParseDateTimeIn(date, clock string, loc *time.Location) (time.Time, error) {
	combined := strings.TrimSpace(date) + " " + strings.ToUpper(strings.TrimSpace(clock))
	return time.ParseInLocation(DateLayout+" "+TimeLayout, combined, loc)
}

func (r DepositRow) Validate() error {
	if strings.TrimSpace(r.Date) == "" {
		return ErrEmptyDate
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Identifier returns the value used to look a member up in reports: the
// phone when present, the name otherwise.
func (c Contact) Identifier() string {
	if c.Phone != "" {
		return c.Phone
	}
	return c.Name
}
