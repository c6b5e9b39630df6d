// Package config loads the settings shared by the recordsync commands from
// an optional JSON file with environment variable overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/viant/recordsync/internal/logging"
	"github.com/viant/recordsync/record"
	"github.com/viant/recordsync/recordsync"
)

// EnvPrefix prefixes every environment override, e.g. RECORDSYNC_DSN.
const EnvPrefix = "RECORDSYNC_"

// Config holds command settings. JSON keys mirror the field tags; every
// field can be overridden by EnvPrefix + the upper-case key.
type Config struct {
	Collection     string `json:"collection"`
	Schema         string `json:"schema"`
	NameField      string `json:"nameField"`
	SecondaryField string `json:"secondaryField"`
	ResetDraft     bool   `json:"resetDraft"`
	Ordering       string `json:"ordering"`
	RequestTimeout string `json:"requestTimeout"`

	DSN       string `json:"dsn"`
	Addr      string `json:"addr"`
	RemoteURL string `json:"remoteURL"`

	LogFile  string `json:"logFile"`
	LogLevel string `json:"logLevel"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Collection: recordsync.DefaultCollection,
		Schema:     "phone",
		Ordering:   "issued",
		DSN:        "recordsync.db",
		Addr:       ":8080",
		LogLevel:   "info",
	}
}

// Load reads path (skipped when empty or missing) over the defaults, then
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func get(k, def string) string {
	if v := os.Getenv(EnvPrefix + k); v != "" {
		return v
	}
	return def
}

func (c *Config) applyEnv() error {
	c.Collection = get("COLLECTION", c.Collection)
	c.Schema = get("SCHEMA", c.Schema)
	c.NameField = get("NAME_FIELD", c.NameField)
	c.SecondaryField = get("SECONDARY_FIELD", c.SecondaryField)
	c.Ordering = get("ORDERING", c.Ordering)
	c.RequestTimeout = get("REQUEST_TIMEOUT", c.RequestTimeout)
	c.DSN = get("DSN", c.DSN)
	c.Addr = get("ADDR", c.Addr)
	c.RemoteURL = get("REMOTE_URL", c.RemoteURL)
	c.LogFile = get("LOG_FILE", c.LogFile)
	c.LogLevel = get("LOG_LEVEL", c.LogLevel)
	if v := get("RESET_DRAFT", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sRESET_DRAFT: %w", EnvPrefix, err)
		}
		c.ResetDraft = b
	}
	return nil
}

// Validate checks that every setting parses.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Collection) == "" {
		return fmt.Errorf("config: collection is empty")
	}
	if _, err := c.RecordSchema(); err != nil {
		return err
	}
	if _, err := recordsync.ParseOrdering(c.Ordering); err != nil {
		return err
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// RecordSchema resolves the schema preset and applies field name overrides.
func (c *Config) RecordSchema() (record.Schema, error) {
	s, err := record.Preset(c.Schema)
	if err != nil {
		return record.Schema{}, err
	}
	if c.NameField != "" {
		s.Name = c.NameField
	}
	if c.SecondaryField != "" {
		s.Secondary = c.SecondaryField
	}
	return s, s.Validate()
}

// Timeout parses RequestTimeout; empty means no timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.RequestTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("config: requestTimeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: requestTimeout must not be negative")
	}
	return d, nil
}

// Logger opens the configured log destination: LogFile when set, stderr
// otherwise.
func (c *Config) Logger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if c.LogFile != "" {
		return logging.NewFile(c.LogFile, level)
	}
	return logging.New(os.Stderr, level), nil
}

// ControllerOptions builds recordsync options from the config.
func (c *Config) ControllerOptions(logger *logging.Logger) (recordsync.Options, error) {
	schema, err := c.RecordSchema()
	if err != nil {
		return recordsync.Options{}, err
	}
	ordering, err := recordsync.ParseOrdering(c.Ordering)
	if err != nil {
		return recordsync.Options{}, err
	}
	timeout, err := c.Timeout()
	if err != nil {
		return recordsync.Options{}, err
	}
	return recordsync.Options{
		Collection:     c.Collection,
		Schema:         schema,
		Ordering:       ordering,
		ResetDraft:     c.ResetDraft,
		RequestTimeout: timeout,
		Logger:         logger,
	}, nil
}
