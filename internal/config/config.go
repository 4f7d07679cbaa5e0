// Package config loads saasctl settings from defaults, an optional JSON
// file, the environment (including a .env file) and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoDatabaseDSN is returned by Validate when no store is configured.
var ErrNoDatabaseDSN = errors.New("DATABASE_URL is not set")

// Config holds runtime settings for saasctl.
//
// Fields:
//   - DatabaseDSN: PostgreSQL DSN (pgx). Required.
//   - AdminEmails: comma-separated admin allowlist, exact match.
//   - CredentialProviderID: provider id the authentication layer expects on
//     password accounts.
//   - LegacyProviderIDs: provider ids written by older tooling that also
//     denote a password account and get rewritten to CredentialProviderID.
//   - DefaultPassword: used by set-password when no password is given and
//     no terminal is available for a prompt.
//   - LogFormat / LogLevel: see logging.Options.
//   - CheckUsersLimit: row cap for check-users.
//   - ConnectTimeout: bound for opening and pinging the store.
type Config struct {
	DatabaseDSN          string
	AdminEmails          string
	CredentialProviderID string
	LegacyProviderIDs    []string
	DefaultPassword      string
	LogFormat            string
	LogLevel             string
	CheckUsersLimit      int
	ConnectTimeout       time.Duration
}

// LoadDefaults populates Config with development defaults.
// There is deliberately no default DSN.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = ""
	c.AdminEmails = ""
	c.CredentialProviderID = "credential"
	c.LegacyProviderIDs = []string{"credentials"}
	c.DefaultPassword = "changeme123"
	c.LogFormat = "auto"
	c.LogLevel = "info"
	c.CheckUsersLimit = 10
	c.ConnectTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings without which no command can run.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return ErrNoDatabaseDSN
	}
	if c.CredentialProviderID == "" {
		return errors.New("credential provider id is empty")
	}
	if c.CheckUsersLimit <= 0 {
		return fmt.Errorf("check-users limit must be positive, got %d", c.CheckUsersLimit)
	}
	return nil
}

// Load is LoadConfig for callers that want an error instead of a panic on a
// malformed flag or config file.
func Load() (cfg *Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			cfg = nil
			err = fmt.Errorf("config: %v", r)
		}
	}()
	return LoadConfig(), nil
}
