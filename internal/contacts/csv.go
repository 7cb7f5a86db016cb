package contacts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column headers expected in an uploaded contact table.
const (
	colSavedName   = "saved name"
	colDisplayName = "contact's public display name"
	colPhone       = "phone number"
)

var ErrMissingColumns = errors.New("contact table is missing required columns")

// ReadCSV parses an address-book table. The header row must carry the saved
// name, display name and phone number columns (matched case-insensitively,
// in any order); extra columns are ignored. The address book is required
// input, so an unreadable table is an error rather than an empty book.
func ReadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read contact header: %w", err)
	}

	saved, display, phone := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case colSavedName:
			saved = i
		case colDisplayName:
			display = i
		case colPhone:
			phone = i
		}
	}
	if saved < 0 && display < 0 && phone < 0 {
		return nil, ErrMissingColumns
	}

	var entries []Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read contact row: %w", err)
		}
		entries = append(entries, Entry{
			SavedName:   field(rec, saved),
			DisplayName: field(rec, display),
			Phone:       field(rec, phone),
		})
	}
	return entries, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
