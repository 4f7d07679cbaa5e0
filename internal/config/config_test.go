package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "ADMIN_EMAILS", "AUTH_CREDENTIAL_PROVIDER_ID",
		"DEFAULT_ADMIN_PASSWORD", "LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	// an empty AUTH_LEGACY_PROVIDER_IDS would clear the list
	t.Setenv("AUTH_LEGACY_PROVIDER_IDS", "credentials")

	orig := dotEnvFile
	dotEnvFile = "does-not-exist.env"
	t.Cleanup(func() { dotEnvFile = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "", c.AdminEmails)
	assert.Equal(t, "credential", c.CredentialProviderID)
	assert.Equal(t, []string{"credentials"}, c.LegacyProviderIDs)
	assert.Equal(t, "changeme123", c.DefaultPassword)
	assert.Equal(t, "auto", c.LogFormat)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 10, c.CheckUsersLimit)
	assert.Equal(t, 10*time.Second, c.ConnectTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"saasctl", "check-users"}

	c := LoadConfig()
	require.NotNil(t, c)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, t.TempDir(), "cfg.json", map[string]any{
		"database_dsn": "postgres://json",
		"admin_emails": "json@example.com",
		"log_level":    "warn",
	})
	t.Setenv("DATABASE_URL", "postgres://env")
	os.Args = []string{"saasctl", "-c", path, "-l", "debug", "check-users"}

	c := LoadConfig()

	assert.Equal(t, "postgres://env", c.DatabaseDSN, "env beats json")
	assert.Equal(t, "json@example.com", c.AdminEmails, "json beats defaults")
	assert.Equal(t, "debug", c.LogLevel, "flags beat json")
}

func TestLoad_ReturnsErrorInsteadOfPanic(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"saasctl", "-n", "many", "check-users"}

	c, err := Load()
	assert.Nil(t, c)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.ErrorIs(t, c.Validate(), ErrNoDatabaseDSN)

	c.DatabaseDSN = "postgres://x"
	assert.NoError(t, c.Validate())

	c.CredentialProviderID = ""
	assert.Error(t, c.Validate())
}

func TestValidate_CheckUsersLimit(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.DatabaseDSN = "postgres://x"

	for _, n := range []int{0, -1} {
		c.CheckUsersLimit = n
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "check-users limit")
	}

	c.CheckUsersLimit = 1
	assert.NoError(t, c.Validate())
}
