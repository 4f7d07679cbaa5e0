package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/flagx"
)

// JsonConfig is the on-disk shape of the optional config file. Empty fields
// leave the current value alone. ConnectTimeout accepts time.ParseDuration
// strings such as "5s".
type JsonConfig struct {
	DatabaseDSN          string   `json:"database_dsn"`
	AdminEmails          string   `json:"admin_emails"`
	CredentialProviderID string   `json:"credential_provider_id"`
	LegacyProviderIDs    []string `json:"legacy_provider_ids"`
	DefaultPassword      string   `json:"default_password"`
	LogFormat            string   `json:"log_format"`
	LogLevel             string   `json:"log_level"`
	CheckUsersLimit      int      `json:"check_users_limit"`
	ConnectTimeout       string   `json:"connect_timeout"`
}

// parseJson loads the file named by -c / -config into config.
// Without the flag nothing happens. An unreadable file, invalid JSON or a bad
// duration panics, matching how a broken flag is handled.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.AdminEmails, c.AdminEmails)
	overlay(&config.CredentialProviderID, c.CredentialProviderID)
	overlay(&config.DefaultPassword, c.DefaultPassword)
	overlay(&config.LogFormat, c.LogFormat)
	overlay(&config.LogLevel, c.LogLevel)

	if c.LegacyProviderIDs != nil {
		config.LegacyProviderIDs = c.LegacyProviderIDs
	}
	if c.CheckUsersLimit > 0 {
		config.CheckUsersLimit = c.CheckUsersLimit
	}
	if c.ConnectTimeout != "" {
		d, err := time.ParseDuration(c.ConnectTimeout)
		if err != nil {
			panic(err)
		}
		config.ConnectTimeout = d
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
