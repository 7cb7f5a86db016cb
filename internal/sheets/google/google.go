package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ghostfund/internal/core"
	ports "ghostfund/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	dataSheet     string
	summarySheet  string
	contactsSheet string
}

// Ensure interface conformance
var (
	_ ports.LedgerMirror  = (*Client)(nil)
	_ ports.ContactReader = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: GOOGLE_DATA_SHEET_NAME (default "Data"),
// GOOGLE_SUMMARY_SHEET_NAME (default "Summary"),
// GOOGLE_CONTACTS_SHEET_NAME (default "Contacts").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	dataSheet := strings.TrimSpace(os.Getenv("GOOGLE_DATA_SHEET_NAME"))
	if dataSheet == "" {
		dataSheet = "Data"
	}
	summarySheet := strings.TrimSpace(os.Getenv("GOOGLE_SUMMARY_SHEET_NAME"))
	if summarySheet == "" {
		summarySheet = "Summary"
	}
	contactsSheet := strings.TrimSpace(os.Getenv("GOOGLE_CONTACTS_SHEET_NAME"))
	if contactsSheet == "" {
		contactsSheet = "Contacts"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		dataSheet:     dataSheet,
		summarySheet:  summarySheet,
		contactsSheet: contactsSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteLedger replaces the Data and Summary tabs with the given rows.
// The whole tab is rewritten so the mirror never drifts from the store.
func (c *Client) WriteLedger(ctx context.Context, ledger []core.DepositRow, summary []core.SummaryRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	dataValues := make([][]any, 0, len(ledger)+1)
	dataValues = append(dataValues, []any{"Date", "Time", "Name", "Phone Number", "Amount", "How They Saved"})
	for _, r := range ledger {
		dataValues = append(dataValues, []any{r.Date, r.Time, r.Name, r.Phone, r.Amount, r.HowSaved})
	}
	if err := c.rewriteSheet(ctx, c.dataSheet, dataValues); err != nil {
		return fmt.Errorf("write data sheet: %w", err)
	}

	summaryValues := make([][]any, 0, len(summary)+1)
	summaryValues = append(summaryValues, []any{"Name", "Phone Number", "Total Amount"})
	for _, s := range summary {
		summaryValues = append(summaryValues, []any{s.Name, s.Phone, s.Total})
	}
	if err := c.rewriteSheet(ctx, c.summarySheet, summaryValues); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}

	slog.InfoContext(ctx, "Ledger mirrored to spreadsheet",
		"data_rows", len(ledger),
		"summary_rows", len(summary))
	return nil
}

func (c *Client) rewriteSheet(ctx context.Context, sheetName string, values [][]any) error {
	clearRange := fmt.Sprintf("%s!A:F", sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	writeRange := fmt.Sprintf("%s!A1", sheetName)
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", writeRange, err)
	}
	return nil
}

// ReadContacts reads the contact roster from the contacts tab. Expected
// columns: saved name, display name, phone number. The header row is skipped.
func (c *Client) ReadContacts(ctx context.Context) ([]core.Contact, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A2:C", c.contactsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	var out []core.Contact
	for _, row := range resp.Values {
		cols := toStrings(row)
		name := firstNonEmpty(safeGet(cols, 0), safeGet(cols, 1))
		phone := safeGet(cols, 2)
		if name == "" && phone == "" {
			continue
		}
		out = append(out, core.Contact{Name: name, Phone: phone})
	}
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
