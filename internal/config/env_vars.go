package config

import (
	"fmt"
	"strings"
	"time"
)

type EnvVars struct {
	server  ServerSettings
	logging LoggingSettings
	http    HTTPSettings
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	return fmt.Sprintf(":%d", e.server.Port)
}

func (e EnvVars) GetAppName() string {
	return e.server.AppName
}

func (e EnvVars) GetDataFolder() string {
	return e.server.DataFolder
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.server.Env)
}

// GetBaseURL returns the public URL of this service (e.g., "https://sync.example.com")
func (e EnvVars) GetBaseURL() string {
	return strings.TrimRight(e.server.BaseURL, "/")
}

func (e EnvVars) GetLogging() LoggingSettings {
	return e.logging
}

// GetHTTPTimeout bounds every outbound HTTP call.
func (e EnvVars) GetHTTPTimeout() time.Duration {
	return e.http.Timeout
}
