// Package contacts maps raw chat sender labels to canonical member
// identities using an externally loaded address book.
package contacts

import (
	"strings"

	"ghostfund/internal/core"
)

// Entry is one raw address-book record before canonicalization. The saved
// name is preferred over the public display name, which is preferred over
// the bare phone number.
type Entry struct {
	SavedName   string
	DisplayName string
	Phone       string
}

// Book is the prebuilt address book, keyed two ways: by lowercase canonical
// name and by normalized phone. Not mutated after construction.
type Book struct {
	byName  map[string]core.Contact
	byPhone map[string]core.Contact
}

// NewBook canonicalizes raw entries into a lookup table. Entries with
// neither a usable name nor a phone are dropped.
func NewBook(entries []Entry) *Book {
	b := &Book{
		byName:  make(map[string]core.Contact, len(entries)),
		byPhone: make(map[string]core.Contact, len(entries)),
	}
	for _, e := range entries {
		phone := strings.TrimSpace(e.Phone)
		name := strings.TrimSpace(e.SavedName)
		if name == "" {
			name = strings.TrimSpace(e.DisplayName)
		}
		if name == "" {
			name = phone
		}
		if name == "" && phone == "" {
			continue
		}

		contact := core.Contact{Name: name, Phone: phone}
		if name != "" {
			b.byName[strings.ToLower(name)] = contact
		}
		if norm := NormalizePhone(phone); norm != "" {
			b.byPhone[norm] = contact
		}
	}
	return b
}

// Len returns the number of distinct lookup keys in the book.
func (b *Book) Len() int {
	return len(b.byName) + len(b.byPhone)
}

// Resolve maps a sender label to a canonical identity. Order: exact
// case-insensitive name match; then normalized phone when the label carries
// any digit; then the raw label itself with an empty phone. Never fails.
func (b *Book) Resolve(sender string) core.Contact {
	sender = strings.TrimSpace(sender)

	if c, ok := b.byName[strings.ToLower(sender)]; ok {
		return c
	}
	if strings.ContainsAny(sender, "0123456789") {
		if c, ok := b.byPhone[NormalizePhone(sender)]; ok {
			return c
		}
	}
	return core.Contact{Name: sender}
}

// NormalizePhone strips a phone label down to digits and a leading plus.
func NormalizePhone(phone string) string {
	var sb strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
