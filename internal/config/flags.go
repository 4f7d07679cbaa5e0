package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/flagx"
)

// ValueFlags are all flags that take a separate value, including the config
// file flags. The command dispatcher uses them to find positional arguments.
var ValueFlags = []string{"-c", "-config", "-d", "-a", "-p", "-f", "-l", "-n", "-t"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-a string   comma-separated admin allowlist
//	-p string   credential provider id
//	-f string   log format (auto, json, console)
//	-l string   log level (debug, info, warn, error)
//	-n int      check-users row limit
//	-t int      store connect timeout, seconds
//
// Flags may appear before or after the subcommand; os.Args is filtered with
// flagx.FilterArgs so positional arguments are left alone.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-a", "-p", "-f", "-l", "-n", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AdminEmails, "a", config.AdminEmails, "comma-separated admin emails")
	fs.StringVar(&config.CredentialProviderID, "p", config.CredentialProviderID, "credential provider id")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.IntVar(&config.CheckUsersLimit, "n", config.CheckUsersLimit, "check-users row limit")

	connectTimeout := fs.Int("t", int(config.ConnectTimeout.Seconds()), "connect timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ConnectTimeout = time.Duration(*connectTimeout) * time.Second
}
