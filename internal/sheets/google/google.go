package google

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"budgetly/internal/core"
	ports "budgetly/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var _ ports.LedgerWriter = (*Client)(nil)

// Header is the first row of a ledger sheet.
var Header = []any{"Recorded At", "Action", "Expense ID", "User ID", "Date", "Description", "Category", "Amount"}

// Options configures the Sheets client. One of CredentialsJSON or
// CredentialsFile must name a service account key.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string

	mu           sync.Mutex
	headerExists bool
}

// New creates a Sheets client authenticated as a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Ledger"
	}

	var cred goption.ClientOption
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		cred = goption.WithCredentialsJSON([]byte(opts.CredentialsJSON))
	case strings.TrimSpace(opts.CredentialsFile) != "":
		cred = goption.WithCredentialsFile(opts.CredentialsFile)
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx, cred, goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// Append adds entry below the last row of the ledger sheet.
func (c *Client) Append(ctx context.Context, entry core.LedgerEntry) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	if err := c.ensureHeader(ctx); err != nil {
		return "", err
	}

	rng := fmt.Sprintf("%s!A:H", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{ledgerRow(entry)}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

// ensureHeader writes Header into the first row of an empty sheet. The
// check runs once per client.
func (c *Client) ensureHeader(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.headerExists {
		return nil
	}

	rng := fmt.Sprintf("%s!A1:H1", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header of sheet %s: %w", c.sheetName, err)
	}

	if needsHeader(resp) {
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{Header}}).
			ValueInputOption("RAW").
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write header of sheet %s: %w", c.sheetName, err)
		}
	}

	c.headerExists = true
	return nil
}

func needsHeader(vr *gsheet.ValueRange) bool {
	if vr == nil || len(vr.Values) == 0 {
		return true
	}
	for _, cell := range vr.Values[0] {
		if s, ok := cell.(string); !ok || strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// ledgerRow lays entry out in Header order. Dates are written as text the
// spreadsheet parses under USER_ENTERED; free text goes through textCell.
func ledgerRow(e core.LedgerEntry) []any {
	category := textCell(e.Category)
	if category == "" {
		category = "-"
	}
	return []any{
		e.RecordedAt.UTC().Format(time.DateTime),
		string(e.Action),
		textCell(e.ExpenseID),
		textCell(e.UserID),
		e.Date.Format(time.DateOnly),
		textCell(e.Description),
		category,
		e.Amount,
	}
}

// textCell keeps user text literal under USER_ENTERED. A leading quote
// stops the sheet from evaluating values that start like a formula.
func textCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
