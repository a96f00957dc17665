package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Settings is the raw configuration tree loaded by Load. Components read it
// through the Config interfaces rather than directly.
type Settings struct {
	Server        ServerSettings        `koanf:"server"`
	Logging       LoggingSettings       `koanf:"logging"`
	HTTP          HTTPSettings          `koanf:"http"`
	CRM           CRMSettings           `koanf:"crm"`
	BookingSource BookingSourceSettings `koanf:"bookingsource"`
	Ledger        LedgerSettings        `koanf:"ledger"`
	Ingest        IngestSettings        `koanf:"ingest"`
	Security      SecuritySettings      `koanf:"security"`
}

type ServerSettings struct {
	Port       int    `koanf:"port" validate:"gt=0,lte=65535"`
	AppName    string `koanf:"app_name" validate:"required"`
	Env        string `koanf:"env" validate:"required"`
	DataFolder string `koanf:"data_folder" validate:"required"`
	BaseURL    string `koanf:"base_url" validate:"required,url"`
}

type LoggingSettings struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

type HTTPSettings struct {
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

type CRMSettings struct {
	ClientID      string `koanf:"client_id"`
	ClientSecret  string `koanf:"client_secret"`
	RedirectURI   string `koanf:"redirect_uri"`
	AuthorizeURL  string `koanf:"authorize_url" validate:"required,url"`
	TokenURL      string `koanf:"token_url" validate:"required,url"`
	APIBaseURL    string `koanf:"api_base_url" validate:"required,url"`
	NewTags       []int  `koanf:"new_tags" validate:"min=1"`
	RepeatTags    []int  `koanf:"repeat_tags" validate:"min=1"`
	PassengerTags []int  `koanf:"passenger_tags" validate:"min=1"`
}

type BookingSourceSettings struct {
	BaseURL          string            `koanf:"base_url" validate:"required,url"`
	APIKey           string            `koanf:"api_key"`
	APISecret        string            `koanf:"api_secret"`
	BookingURLPrefix string            `koanf:"booking_url_prefix" validate:"required"`
	RequestsPerSec   float64           `koanf:"requests_per_sec" validate:"gt=0"`
	Burst            int               `koanf:"burst" validate:"gt=0"`
	StatusLabels     map[string]string `koanf:"status_labels"`
}

type LedgerSettings struct {
	Backend         string `koanf:"backend" validate:"oneof=sheets memory"`
	SpreadsheetID   string `koanf:"spreadsheet_id" validate:"required_if=Backend sheets"`
	Worksheet       string `koanf:"worksheet" validate:"required"`
	CredentialsFile string `koanf:"credentials_file" validate:"required_if=Backend sheets"`
}

type IngestSettings struct {
	ProductKeywords []string `koanf:"product_keywords"`
	VenueKeywords   []string `koanf:"venue_keywords"`
	Timezone        string   `koanf:"timezone" validate:"required"`
}

type SecuritySettings struct {
	WebhookSecret        string        `koanf:"webhook_secret"`
	StateSecret          string        `koanf:"state_secret"`
	StateTTL             time.Duration `koanf:"state_ttl" validate:"gt=0"`
	WebhookRateLimit     int           `koanf:"webhook_rate_limit" validate:"gte=0"`
	WebhookRateLimitSpan time.Duration `koanf:"webhook_rate_limit_span" validate:"gt=0"`
}

// defaultSettings returns the built in defaults. They are applied first and
// then overridden by the config file and environment variables.
func defaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Port:       8080,
			AppName:    "Booking Sync",
			Env:        "DEV",
			DataFolder: "./data",
			BaseURL:    "http://localhost:8080",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPSettings{
			Timeout: 30 * time.Second,
		},
		CRM: CRMSettings{
			AuthorizeURL:  "https://accounts.infusionsoft.com/app/oauth/authorize",
			TokenURL:      "https://api.infusionsoft.com/token",
			APIBaseURL:    "https://api.infusionsoft.com/crm/rest/v1",
			NewTags:       []int{13988},
			RepeatTags:    []int{14052},
			PassengerTags: []int{13988},
		},
		BookingSource: BookingSourceSettings{
			BaseURL:          "https://activeaway.checkfront.co.uk/api/3.0",
			BookingURLPrefix: "https://activeaway.checkfront.co.uk/booking/",
			RequestsPerSec:   5,
			Burst:            5,
			StatusLabels:     map[string]string{},
		},
		Ledger: LedgerSettings{
			Backend:   "memory",
			Worksheet: "Import Data",
		},
		Ingest: IngestSettings{
			Timezone: "Europe/London",
		},
		Security: SecuritySettings{
			StateTTL:             10 * time.Minute,
			WebhookRateLimit:     60,
			WebhookRateLimitSpan: time.Minute,
		},
	}
}

// Validate checks the settings tree against its validation tags.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
