package http

import "strconv"

// formatAmount renders an integral taka amount with a currency suffix
// (e.g. "160 Tk").
func formatAmount(amount int64) string {
	return strconv.FormatInt(amount, 10) + " Tk"
}
