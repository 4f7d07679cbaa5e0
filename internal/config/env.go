package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// dotEnvFile is loaded from the working directory when present.
var dotEnvFile = ".env"

// parseEnv overlays values from environment variables. A .env file is read
// first; it never overrides variables that are already set.
//
// Variables:
//
//	DATABASE_URL                 PostgreSQL DSN
//	ADMIN_EMAILS                 comma-separated admin allowlist
//	AUTH_CREDENTIAL_PROVIDER_ID  provider id of password accounts
//	AUTH_LEGACY_PROVIDER_IDS     comma-separated legacy provider ids
//	DEFAULT_ADMIN_PASSWORD       fallback for set-password
//	LOG_FORMAT                   auto, json or console
//	LOG_LEVEL                    debug, info, warn or error
func parseEnv(config *Config) {
	if _, err := os.Stat(dotEnvFile); err == nil {
		// a broken .env is not worse than a missing one
		_ = godotenv.Load(dotEnvFile)
	}

	setString(&config.DatabaseDSN, "DATABASE_URL")
	setString(&config.AdminEmails, "ADMIN_EMAILS")
	setString(&config.CredentialProviderID, "AUTH_CREDENTIAL_PROVIDER_ID")
	setString(&config.DefaultPassword, "DEFAULT_ADMIN_PASSWORD")
	setString(&config.LogFormat, "LOG_FORMAT")
	setString(&config.LogLevel, "LOG_LEVEL")

	if v, ok := os.LookupEnv("AUTH_LEGACY_PROVIDER_IDS"); ok {
		config.LegacyProviderIDs = SplitList(v)
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// SplitList splits a comma-separated value, trims every item and drops
// empty ones.
func SplitList(s string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
