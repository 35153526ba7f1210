package fakecrm

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"gopkg.in/yaml.v3"
)

// Config holds the fake service configuration loaded from YAML and env.
type Config struct {
	Port        string
	Description string

	// Capabilities are reported by the status resource. Routes for anything not listed answer
	// with the legacy "not implemented" placeholder.
	Capabilities []string

	StorageBaseURL   string
	RecordingBaseURL string
	RecordingExpiry  time.Duration

	ShutdownTimeout time.Duration
}

type fileConfig struct {
	Server struct {
		Port            string `yaml:"port"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Service struct {
		Description  string   `yaml:"description"`
		Capabilities []string `yaml:"capabilities"`
	} `yaml:"service"`

	Storage struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"storage"`

	Recordings struct {
		BaseURL string `yaml:"base_url"`
		Expiry  string `yaml:"expiry"`
	} `yaml:"recordings"`
}

// DefaultConfig declares every capability, so the full contract suite passes against it.
func DefaultConfig() Config {
	return Config{
		Port:             "8000",
		Description:      "fake Claim Connectors CRM service",
		Capabilities:     append([]string(nil), servicedef.AllCapabilities...),
		StorageBaseURL:   "https://storage.example.com",
		RecordingBaseURL: "https://recordings.example.com",
		RecordingExpiry:  time.Hour,
		ShutdownTimeout:  5 * time.Second,
	}
}

// Load reads configuration from path, if it is not empty, on top of DefaultConfig, and then
// applies the FAKE_CRM_PORT, FAKE_CRM_CAPABILITIES, and FAKE_CRM_RECORDING_EXPIRY overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config file not found: %s", path)
			}
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if err := fc.applyTo(&cfg); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("FAKE_CRM_PORT"); v != "" {
		cfg.Port = v
	}
	if v, ok := os.LookupEnv("FAKE_CRM_CAPABILITIES"); ok {
		cfg.Capabilities = splitList(v)
	}
	if v := os.Getenv("FAKE_CRM_RECORDING_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("FAKE_CRM_RECORDING_EXPIRY: %w", err)
		}
		cfg.RecordingExpiry = d
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (fc fileConfig) applyTo(cfg *Config) error {
	if fc.Server.Port != "" {
		cfg.Port = fc.Server.Port
	}
	if fc.Server.ShutdownTimeout != "" {
		d, err := time.ParseDuration(fc.Server.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("server.shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if fc.Service.Description != "" {
		cfg.Description = fc.Service.Description
	}
	if fc.Service.Capabilities != nil {
		cfg.Capabilities = fc.Service.Capabilities
	}
	if fc.Storage.BaseURL != "" {
		cfg.StorageBaseURL = fc.Storage.BaseURL
	}
	if fc.Recordings.BaseURL != "" {
		cfg.RecordingBaseURL = fc.Recordings.BaseURL
	}
	if fc.Recordings.Expiry != "" {
		d, err := time.ParseDuration(fc.Recordings.Expiry)
		if err != nil {
			return fmt.Errorf("recordings.expiry: %w", err)
		}
		cfg.RecordingExpiry = d
	}
	return nil
}

func (c Config) validate() error {
	known := make(map[string]bool, len(servicedef.AllCapabilities))
	for _, name := range servicedef.AllCapabilities {
		known[name] = true
	}
	for _, name := range c.Capabilities {
		if !known[name] {
			return fmt.Errorf("unknown capability %q", name)
		}
	}
	if c.RecordingExpiry <= 0 {
		return fmt.Errorf("recording expiry must be positive, got %s", c.RecordingExpiry)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
