// Package google reads chart rows and rosters from the data team's
// published Google Sheets workbook: one worksheet per chart kind plus
// a candidates worksheet, each with a header row.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"campfin/internal/core"
	ports "campfin/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	rosterSheet   string
	// chartSheets maps a chart kind onto its worksheet name.
	chartSheets map[string]string
}

// Ensure interface conformance
var _ ports.Source = (*Client)(nil)

// chartSheetDefaults names the worksheets matching each chart kind.
var chartSheetDefaults = map[string]string{
	core.ChartLocation: "Location",
	core.ChartSize:     "Size",
	core.ChartIndustry: "Industry",
	core.ChartTotals:   "Totals",
	core.ChartTimeline: "Timeline",
}

// New creates a Sheets-backed source for the given workbook.
// rosterSheet overrides the candidates worksheet name; empty keeps
// the default. Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, rosterSheet string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(svc, spreadsheetID, rosterSheet), nil
}

func newClient(svc *gsheet.Service, spreadsheetID, rosterSheet string) *Client {
	if rosterSheet == "" {
		rosterSheet = "Candidates"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		rosterSheet:   rosterSheet,
		chartSheets:   chartSheetDefaults,
	}
}

// newSheetsService initializes a read-only Sheets service using
// service account credentials.
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
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ListRows implements source.RowLister by reading the chart's
// worksheet. Election is encoded in the workbook itself (one workbook
// per cycle), so the argument is only logged.
func (c *Client) ListRows(ctx context.Context, election, chart string) ([]core.RawRow, error) {
	sheet, ok := c.chartSheets[chart]
	if !ok {
		return nil, fmt.Errorf("unknown chart kind %q", chart)
	}
	values, err := c.readSheet(ctx, sheet)
	if err != nil {
		return nil, err
	}
	rows := parseRows(values)
	slog.InfoContext(ctx, "Rows fetched from sheet",
		"election", election, "chart", chart, "sheet", sheet, "row_count", len(rows))
	return rows, nil
}

// ListRoster implements source.RosterReader.
func (c *Client) ListRoster(ctx context.Context, election string) ([]core.CandidateRef, error) {
	values, err := c.readSheet(ctx, c.rosterSheet)
	if err != nil {
		return nil, err
	}
	roster := parseRoster(values)
	slog.InfoContext(ctx, "Roster fetched from sheet",
		"election", election, "sheet", c.rosterSheet, "row_count", len(roster))
	return roster, nil
}

func (c *Client) readSheet(ctx context.Context, sheet string) ([][]interface{}, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:Z", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return resp.Values, nil
}
