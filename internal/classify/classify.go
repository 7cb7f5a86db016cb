// Package classify decides whether a chat message records a deposit and
// extracts the deposited amount.
package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// currencyAmountPattern is the single versioned grammar for currency-tagged
// amounts, shared by the classifier and the extractor so the two never
// drift. It accepts the currency token on either side of the digits
// ("BDT 90", "Tk. 160", "160 Tk", "90 bdt", "৳500") with optional
// punctuation and comma thousands separators.
var currencyAmountPattern = regexp.MustCompile(
	`(?i)(?:(tk|taka|bdt|৳)\.?\s*([0-9][0-9,]*))|(?:([0-9][0-9,]*)\s*(tk|taka|bdt|৳)\.?)`,
)

var (
	digitsOnlyPattern = regexp.MustCompile(`^\d+$`)
	nonDigitPattern   = regexp.MustCompile(`[^\d]`)
)

// weeklyTotalPhrase marks periodic total-announcement broadcasts. They look
// like deposits ("My weekly ghost fund by Thursday 9 pm : BDT 90") but
// restate an existing total instead of recording a new one.
const weeklyTotalPhrase = "weekly ghost fund"

// IsSavingMessage reports whether the text is a genuine deposit record.
// Decision order, first match wins: weekly total broadcasts are never
// deposits; any currency-tagged amount makes a deposit; a message that is
// nothing but digits is the bare numeric shorthand some members use.
func IsSavingMessage(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	if strings.Contains(lower, weeklyTotalPhrase) {
		return false
	}
	if currencyAmountPattern.MatchString(text) {
		return true
	}
	return digitsOnlyPattern.MatchString(lower)
}

// ExtractAmount parses the deposited amount out of free text. Every
// non-overlapping currency-tagged occurrence is summed, so "Saved 160 Tk and
// 80 Tk" yields 240. When no currency-tagged amount exists but the whole
// trimmed text is digits, that number is returned. Otherwise ok is false:
// the result is never a guess from partial matches.
func ExtractAmount(text string) (amount int64, ok bool) {
	if text == "" {
		return 0, false
	}

	var sum int64
	found := false
	for _, m := range currencyAmountPattern.FindAllStringSubmatch(text, -1) {
		num := m[2]
		if num == "" {
			num = m[3]
		}
		if num == "" {
			continue
		}
		n, err := strconv.ParseInt(nonDigitPattern.ReplaceAllString(num, ""), 10, 64)
		if err != nil {
			continue
		}
		sum += n
		found = true
	}
	if found {
		return sum, true
	}

	trimmed := strings.TrimSpace(text)
	if digitsOnlyPattern.MatchString(trimmed) {
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
