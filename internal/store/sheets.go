package store

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/anatolykoptev/go_tube/internal/collector"
)

// Sheets is the spreadsheet destination store, one row per accepted record
// on a single worksheet, column order per Columns.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

var _ collector.Store = (*Sheets)(nil)

// NewSheets builds a Sheets store over a service-account credentials file.
// Ensures the header row exists so downstream consumers see named columns.
func NewSheets(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*Sheets, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("store: sheets service: %w", err)
	}
	if sheetName == "" {
		sheetName = "raw_links"
	}

	s := &Sheets{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureHeader writes the column header when the sheet is empty.
func (s *Sheets) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetName+"!A1:M1").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("store: read header: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]any, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	_, err = s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName+"!A1", &sheets.ValueRange{Values: [][]any{header}}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("store: write header: %w", err)
	}
	slog.Info("store: header row created", slog.String("sheet", s.sheetName))
	return nil
}

// LoadIDs reads the video_id column, skipping the header row.
func (s *Sheets) LoadIDs(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetName+"!A2:A").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("store: load ids: %w", err)
	}

	ids := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Append re-reads the ID column immediately before writing (the spreadsheet
// is shared; another writer may have appended since the run started), skips
// records that became duplicates, and appends the rest in one call. The
// written count comes from the API response, so a truncated write (cell-count
// ceiling) is reported as a partial write.
func (s *Sheets) Append(ctx context.Context, records []collector.VideoRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	current, err := s.LoadIDs(ctx)
	if err != nil {
		return 0, err
	}
	existing := make(map[string]struct{}, len(current))
	for _, id := range current {
		existing[id] = struct{}{}
	}

	var rows [][]any
	for _, rec := range records {
		if _, dup := existing[rec.VideoID]; dup {
			slog.Warn("store: skipping concurrent duplicate", slog.String("id", rec.VideoID))
			continue
		}
		existing[rec.VideoID] = struct{}{}
		rows = append(rows, rowValues(rec))
	}
	if len(rows) == 0 {
		return 0, nil
	}

	resp, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName+"!A1", &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("store: append rows: %w", err)
	}

	written := len(rows)
	if resp.Updates != nil && int(resp.Updates.UpdatedRows) < written {
		written = int(resp.Updates.UpdatedRows)
	}
	return written, nil
}
