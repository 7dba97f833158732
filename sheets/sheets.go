// Package sheets appends completed rounds to a Google Sheet. The sheet is
// the only durable copy of results; every write is best effort and
// attempted exactly once.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adamyamd/Missionary-Trainer-ENG/config"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const timestampLayout = "2006-01-02 15:04:05"

// Sink appends result rows to one spreadsheet.
type Sink struct {
	service       *sheets.Service
	spreadsheetId string
	sheetName     string
}

// NewSink builds a sink from the configured service-account credential.
// The inline JSON secret takes precedence over the local key file; with
// neither configured the caller should treat persistence as disabled.
func NewSink(ctx context.Context, cfg *config.Config) (*Sink, error) {
	if cfg.Sheets.SpreadsheetId == "" {
		return nil, errors.New("spreadsheet id not configured")
	}

	var opts []option.ClientOption
	switch {
	case cfg.Sheets.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.Sheets.CredentialsJSON)))
	case cfg.Sheets.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.Sheets.CredentialsFile))
	default:
		return nil, errors.New("no service-account credential configured")
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &Sink{
		service:       service,
		spreadsheetId: cfg.Sheets.SpreadsheetId,
		sheetName:     cfg.Sheets.SheetName,
	}, nil
}

// BuildRow assembles the 5-column result row the sheet expects.
func BuildRow(now time.Time, name, topic, score, feedback string) []interface{} {
	return []interface{}{now.Format(timestampLayout), name, topic, score, feedback}
}

// Append writes one result row. Errors are returned for the operator log;
// the caller must not fail the round on them.
func (s *Sink) Append(ctx context.Context, name, topic, score, feedback string) error {
	row := BuildRow(time.Now(), name, topic, score, feedback)
	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetId, s.sheetName+"!A1", valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}
