package config

import "time"

type Config interface {
	EnvConfig
	CrmConfig
	BookingSourceConfig
	LedgerConfig
	IngestConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetBaseURL() string
	GetEnv() string
	GetLogging() LoggingSettings
	GetHTTPTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Crm
	BookingSource
	Ledger
	Ingest
	Security
}

// New wraps loaded settings in the Config interfaces. A nil settings value
// falls back to the built in defaults.
func New(s *Settings) Config {
	if s == nil {
		s = defaultSettings()
	}
	return mainConfig{
		EnvVars:       EnvVars{server: s.Server, logging: s.Logging, http: s.HTTP},
		Crm:           Crm{crm: s.CRM},
		BookingSource: BookingSource{source: s.BookingSource},
		Ledger:        Ledger{ledger: s.Ledger},
		Ingest:        Ingest{ingest: s.Ingest},
		Security:      Security{security: s.Security},
	}
}

// GetCrmRedirectURI falls back to the callback route under the public base URL.
func (c mainConfig) GetCrmRedirectURI() string {
	if uri := c.Crm.GetCrmRedirectURI(); uri != "" {
		return uri
	}
	return c.GetBaseURL() + "/crm/callback"
}
