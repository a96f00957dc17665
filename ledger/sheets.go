package ledger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jrsteele09/go-booking-sync/internal/config"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputOption = "USER_ENTERED"

var _ Ledger = (*Sheets)(nil)

// Sheets is a Ledger backed by one worksheet of a Google spreadsheet.
type Sheets struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	worksheet     string
}

// NewSheets authenticates with the service account key in the configured
// credentials file.
func NewSheets(ctx context.Context, cfg config.LedgerConfig) (*Sheets, error) {
	creds, err := os.ReadFile(cfg.GetLedgerCredentialsFile())
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewSheetsWithService(svc, cfg.GetLedgerSpreadsheetID(), cfg.GetLedgerWorksheet()), nil
}

func NewSheetsWithService(svc *sheets.Service, spreadsheetID, worksheet string) *Sheets {
	return &Sheets{values: svc.Spreadsheets.Values, spreadsheetID: spreadsheetID, worksheet: worksheet}
}

// Lookup finds the first row whose column A equals code.
func (s *Sheets) Lookup(ctx context.Context, code string) (int, bool, error) {
	resp, err := s.values.Get(s.spreadsheetID, s.a1("A:A")).Context(ctx).Do()
	if err != nil {
		return 0, false, err
	}
	for i, r := range resp.Values {
		if len(r) > 0 && fmt.Sprint(r[0]) == code {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

func (s *Sheets) Update(ctx context.Context, rangeA1 string, row []string) error {
	_, err := s.values.Update(s.spreadsheetID, s.a1(rangeA1), valueRange(row)).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	return err
}

func (s *Sheets) Append(ctx context.Context, row []string) error {
	_, err := s.values.Append(s.spreadsheetID, s.a1("A1"), valueRange(row)).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// a1 prefixes a range with the quoted worksheet name.
func (s *Sheets) a1(rng string) string {
	return "'" + strings.ReplaceAll(s.worksheet, "'", "''") + "'!" + rng
}

func valueRange(row []string) *sheets.ValueRange {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	return &sheets.ValueRange{Values: [][]interface{}{values}}
}
