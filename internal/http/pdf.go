package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"ghostfund/internal/classify"
)

// Patterns that mark a how-saved text as cosmetic noise for the PDF. The
// ledger itself keeps every row; this filter affects only the rendered page.
var (
	digitsOnlyText   = regexp.MustCompile(`^\d+$`)
	amountOnlyPrefix = regexp.MustCompile(`(?i)^(bdt\s*)?\d+$`)
	amountOnlySuffix = regexp.MustCompile(`(?i)^\d+\s*(tk|taka|bdt)$`)
	hasLetter        = regexp.MustCompile(`[a-zA-Z]`)

	genericSavingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^i saved \d+ ?tk$`),
		regexp.MustCompile(`^i saved \d+ ?taka$`),
		regexp.MustCompile(`^i saved \d+ ?bdt$`),
		regexp.MustCompile(`^i saved \d+ ?tk today$`),
		regexp.MustCompile(`^today i saved \d+ ?tk$`),
		regexp.MustCompile(`^i saved total \d+ ?tk$`),
	}
)

// isReasonableHowSaved keeps only entries with an amount and a written
// reason, dropping bare numbers and formulaic "i saved N tk" lines.
func isReasonableHowSaved(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" {
		return false
	}
	if digitsOnlyText.MatchString(s) {
		return false
	}
	if amountOnlyPrefix.MatchString(s) || amountOnlySuffix.MatchString(s) {
		return false
	}
	if !hasLetter.MatchString(s) {
		return false
	}
	if _, ok := classify.ExtractAmount(s); !ok {
		return false
	}
	lower := strings.ToLower(s)
	for _, pat := range genericSavingPatterns {
		if pat.MatchString(lower) {
			return false
		}
	}
	return true
}

// handleHowSavedPDF renders the reason-based savings notes as a PDF.
func (s *Server) handleHowSavedPDF(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.Ledger(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load ledger error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load ledger")
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "no data uploaded yet")
		return
	}

	var entries []string
	for _, row := range rows {
		if isReasonableHowSaved(row.HowSaved) {
			entries = append(entries, strings.TrimSpace(row.HowSaved))
		}
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "no reason-based savings found")
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Ghost Fund - How Savings Were Made")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, "Total entries: "+strconv.Itoa(len(entries)))
	pdf.Ln(12)

	for _, entry := range entries {
		pdf.MultiCell(0, 5, "- "+entry, "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		slog.ErrorContext(r.Context(), "PDF generation error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="how_saved.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
