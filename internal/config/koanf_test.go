package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := load("")
	require.NoError(t, err)

	cfg := New(s)
	require.Equal(t, ":8080", cfg.GetPort())
	require.Equal(t, "DEV", cfg.GetEnv())
	require.Equal(t, 30*time.Second, cfg.GetHTTPTimeout())
	require.Equal(t, []int{13988}, cfg.GetCrmTags().New)
	require.Equal(t, []int{14052}, cfg.GetCrmTags().Repeat)
	require.Equal(t, []int{13988}, cfg.GetCrmTags().Passenger)
	require.Equal(t, "Europe/London", cfg.GetReportingTimezone())
	require.Equal(t, "memory", cfg.GetLedgerBackend())
	require.Equal(t, "Import Data", cfg.GetLedgerWorksheet())
	require.Equal(t, "http://localhost:8080/crm/callback", cfg.GetCrmRedirectURI())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
crm:
  client_id: file-client
  client_secret: file-secret
ingest:
  product_keywords: ["Tennis Holiday", "Padel Weekend"]
  venue_keywords: ["Portugal"]
bookingsource:
  status_labels:
    PAID: Paid
    HOLD: On Hold
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("CRM_CLIENT_SECRET", "env-secret")
	t.Setenv("CRM_REPEAT_TAGS", "1, 2")
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "https://sync.example.com/")

	s, err := load(path)
	require.NoError(t, err)

	cfg := New(s)
	require.Equal(t, "file-client", cfg.GetCrmClientID())
	require.Equal(t, "env-secret", cfg.GetCrmClientSecret())
	require.Equal(t, []int{1, 2}, cfg.GetCrmTags().Repeat)
	require.Equal(t, ":9090", cfg.GetPort())
	require.Equal(t, []string{"Tennis Holiday", "Padel Weekend"}, cfg.GetProductKeywords())
	require.Equal(t, []string{"Portugal"}, cfg.GetVenueKeywords())
	require.Equal(t, "On Hold", cfg.GetBookingStatusLabels()["HOLD"])
	require.Equal(t, "https://sync.example.com/crm/callback", cfg.GetCrmRedirectURI())
}

func TestLoadRejectsSheetsWithoutSpreadsheet(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "sheets")

	_, err := load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "SpreadsheetID")
}

func TestEnvTransformFunc(t *testing.T) {
	cases := map[string]string{
		"CRM_CLIENT_ID":           "crm.client_id",
		"BOOKINGSOURCE_API_KEY":   "bookingsource.api_key",
		"SECURITY_WEBHOOK_SECRET": "security.webhook_secret",
		"PORT":                    "server.port",
		"PATH":                    "",
		"CRM_":                    "",
	}
	for in, want := range cases {
		require.Equal(t, want, envTransformFunc(in), in)
	}
}

func TestGetPortAddsColon(t *testing.T) {
	cfg := New(&Settings{Server: ServerSettings{Port: 443}})
	require.Equal(t, ":443", cfg.GetPort())
}
