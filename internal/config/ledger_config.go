package config

type LedgerConfig interface {
	GetLedgerBackend() string
	GetLedgerSpreadsheetID() string
	GetLedgerWorksheet() string
	GetLedgerCredentialsFile() string
}

type Ledger struct {
	ledger LedgerSettings
}

var _ LedgerConfig = Ledger{}

// GetLedgerBackend is "sheets" for the Google Sheets ledger or "memory" for local runs.
func (l Ledger) GetLedgerBackend() string {
	return l.ledger.Backend
}

func (l Ledger) GetLedgerSpreadsheetID() string {
	return l.ledger.SpreadsheetID
}

func (l Ledger) GetLedgerWorksheet() string {
	return l.ledger.Worksheet
}

func (l Ledger) GetLedgerCredentialsFile() string {
	return l.ledger.CredentialsFile
}
