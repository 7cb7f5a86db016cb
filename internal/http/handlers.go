package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"ghostfund/internal/contacts"
	"ghostfund/internal/report"
	"ghostfund/internal/services"
)

const maxUploadBytes = 16 << 20 // 16 MiB combined upload

type uploadResponse struct {
	Status       string `json:"status"`
	NewRowsAdded int    `json:"new_rows_added"`
	TotalRows    int    `json:"total_rows_in_data"`
	UniqueSavers int    `json:"unique_savers"`
	TotalAmount  int64  `json:"total_amount"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// handleUpload accepts a contacts CSV and a chat export, merges any new
// deposits into the ledger and reports the batch counts.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.ErrorContext(r.Context(), "Parse multipart form error", "error", err)
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	chatFile, _, err := r.FormFile("txt_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "txt_file is required")
		return
	}
	defer chatFile.Close()

	book, err := s.loadContactBook(r)
	if err != nil {
		if errors.Is(err, contacts.ErrMissingColumns) {
			writeError(w, http.StatusBadRequest, "contact file is missing required columns")
			return
		}
		slog.ErrorContext(r.Context(), "Contact loading error", "error", err)
		writeError(w, http.StatusBadRequest, "failed to read contact file")
		return
	}

	chatBytes, err := io.ReadAll(chatFile)
	if err != nil {
		slog.ErrorContext(r.Context(), "Chat export read error", "error", err)
		writeError(w, http.StatusBadRequest, "could not read chat export")
		return
	}

	result, err := s.ingest.Ingest(r.Context(), string(chatBytes), book)
	if err != nil {
		if errors.Is(err, services.ErrNoMessages) {
			writeError(w, http.StatusBadRequest, "no messages parsed from txt file")
			return
		}
		slog.ErrorContext(r.Context(), "Ingest error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process upload")
		return
	}

	// The ledger changed; cached reports are stale.
	s.reportCache.Purge()

	writeJSON(w, http.StatusOK, uploadResponse{
		Status:       "success",
		NewRowsAdded: result.NewRows,
		TotalRows:    result.TotalRows,
		UniqueSavers: result.UniqueSavers,
		TotalAmount:  result.TotalAmount,
	})
}

var errNoContactSource = errors.New("no contact source provided")

// loadContactBook builds the address book from the uploaded CSV; when no CSV
// part is present it falls back to the configured contacts sheet.
func (s *Server) loadContactBook(r *http.Request) (*contacts.Book, error) {
	contactFile, _, err := r.FormFile("contact_file")
	if err == nil {
		defer contactFile.Close()
		entries, err := contacts.ReadCSV(contactFile)
		if err != nil {
			return nil, err
		}
		return contacts.NewBook(entries), nil
	}

	if s.contactReader == nil {
		return nil, errNoContactSource
	}
	roster, err := s.contactReader.ReadContacts(r.Context())
	if err != nil {
		return nil, fmt.Errorf("read contacts sheet: %w", err)
	}
	entries := make([]contacts.Entry, 0, len(roster))
	for _, c := range roster {
		entries = append(entries, contacts.Entry{SavedName: c.Name, Phone: c.Phone})
	}
	return contacts.NewBook(entries), nil
}

// handleTable renders the full ledger as an HTML table.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.Ledger(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load ledger error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load ledger")
		return
	}

	data := struct {
		Title   string
		Headers []string
		Rows    [][]string
	}{
		Title:   "Deposits",
		Headers: []string{"Date", "Time", "Name", "Phone Number", "Amount", "How They Saved"},
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, []string{
			row.Date, row.Time, row.Name, row.Phone, formatAmount(row.Amount), row.HowSaved,
		})
	}
	s.renderTable(w, r, data)
}

// handleSummaryTable renders the per-member totals as an HTML table.
func (s *Server) handleSummaryTable(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.Summary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Load summary error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load summary")
		return
	}

	data := struct {
		Title   string
		Headers []string
		Rows    [][]string
	}{
		Title:   "Summary",
		Headers: []string{"Name", "Phone Number", "Total Amount"},
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, []string{row.Name, row.Phone, formatAmount(row.Total)})
	}
	s.renderTable(w, r, data)
}

func (s *Server) renderTable(w http.ResponseWriter, r *http.Request, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "table.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Table template execution failed", "error", err, "template", "table.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleAllUsers lists every saver with their totals, largest saver first.
func (s *Server) handleAllUsers(w http.ResponseWriter, r *http.Request) {
	members, err := s.reports.AllMembers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List members error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if members == nil {
		members = []report.MemberTotals{}
	}
	writeJSON(w, http.StatusOK, struct {
		List []report.MemberTotals `json:"list"`
	}{List: members})
}

// handleUser serves the per-member breakdown for /user/{identifier}.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	identifier := strings.TrimPrefix(r.URL.Path, "/user/")
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || strings.Contains(identifier, "/") {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	rep, err := s.cachedMemberReport(r.Context(), identifier)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrLedgerEmpty):
			writeError(w, http.StatusNotFound, "no data uploaded yet")
		case errors.Is(err, report.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			slog.ErrorContext(r.Context(), "Member report error", "error", err, "identifier", identifier)
			writeError(w, http.StatusInternalServerError, "failed to build report")
		}
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
