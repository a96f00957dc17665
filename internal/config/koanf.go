package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/booking-sync/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// sections are the top level keys an environment variable may address,
// e.g. CRM_CLIENT_ID -> crm.client_id.
var sections = []string{"server", "logging", "http", "crm", "bookingsource", "ledger", "ingest", "security"}

// legacyEnvVars keeps the short variable names used by earlier deployments.
var legacyEnvVars = map[string]string{
	"port":     "server.port",
	"app_name": "server.app_name",
	"env":      "server.env",
	"folder":   "server.data_folder",
	"base_url": "server.base_url",
}

// sliceConfigPaths are parsed from comma separated strings when they come from the environment.
var sliceConfigPaths = []string{
	"crm.new_tags",
	"crm.repeat_tags",
	"crm.passenger_tags",
	"ingest.product_keywords",
	"ingest.venue_keywords",
}

// Load reads the configuration with layered sources:
//  1. Defaults
//  2. Optional YAML file
//  3. Environment variables
func Load() (*Settings, error) {
	return load(findConfigFile())
}

func load(configPath string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultSettings(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	s := &Settings{}
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// findConfigFile returns the first config file found, or "" if there is none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps an environment variable name to a koanf path.
// Variables outside the known sections are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if path, ok := legacyEnvVars[key]; ok {
		return path
	}
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}

// processSliceFields converts comma separated string values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
