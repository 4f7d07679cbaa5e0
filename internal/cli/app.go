// Package cli turns command-line arguments into one administrative workflow
// and maps its result to printed output and a process exit code.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/saasctl/internal/allowlist"
	"github.com/dmitrijs2005/saasctl/internal/config"
	"github.com/dmitrijs2005/saasctl/internal/credstore"
	"github.com/dmitrijs2005/saasctl/internal/dbx"
	"github.com/dmitrijs2005/saasctl/internal/flagx"
	"github.com/dmitrijs2005/saasctl/internal/logging"
	"github.com/dmitrijs2005/saasctl/internal/repositories/repomanager"
	"github.com/dmitrijs2005/saasctl/internal/services"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

// Driver is the database/sql driver name used for the store.
const Driver = "pgx"

// StoreFunc runs fn with a credential store that stays valid until fn
// returns.
type StoreFunc func(ctx context.Context, fn func(ctx context.Context, store services.CredentialStore) error) error

type App struct {
	config *config.Config
	log    logging.Logger
	stdout io.Writer
	stderr io.Writer
	stdin  *os.File

	withStore StoreFunc
	migrate   func(ctx context.Context) error
}

// NewApp returns an App that talks to PostgreSQL through cfg.DatabaseDSN.
func NewApp(cfg *config.Config, log logging.Logger) *App {
	a := &App{
		config: cfg,
		log:    log,
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
	}
	a.withStore = a.postgresStore
	a.migrate = a.postgresMigrate
	return a
}

func (a *App) postgresStore(ctx context.Context, fn func(ctx context.Context, store services.CredentialStore) error) error {
	return dbx.WithDB(ctx, Driver, a.config.DatabaseDSN, a.config.ConnectTimeout, func(ctx context.Context, db *sql.DB) error {
		store := credstore.New(db, repomanager.NewPostgresRepositoryManager(), a.config.LegacyProviderIDs, a.log)
		return fn(ctx, store)
	})
}

func (a *App) postgresMigrate(ctx context.Context) error {
	return dbx.WithDB(ctx, Driver, a.config.DatabaseDSN, a.config.ConnectTimeout, func(ctx context.Context, db *sql.DB) error {
		return repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db)
	})
}

func (a *App) service(store services.CredentialStore) *services.AdminService {
	return services.NewAdminService(store, services.Options{
		Allowlist:         allowlist.Parse(a.config.AdminEmails),
		ProviderID:        a.config.CredentialProviderID,
		LegacyProviderIDs: a.config.LegacyProviderIDs,
	}, a.log)
}

// command describes one subcommand: its positional arguments and handler.
type command struct {
	usage   string
	minArgs int
	maxArgs int
	run     func(a *App, ctx context.Context, args []string) int
}

var commands = map[string]command{
	"setup-admin":  {usage: "setup-admin <email>", minArgs: 1, maxArgs: 1, run: (*App).setupAdmin},
	"set-password": {usage: "set-password <userId> [password]", minArgs: 1, maxArgs: 2, run: (*App).setPassword},
	"add-account":  {usage: "add-account <userId>", minArgs: 1, maxArgs: 1, run: (*App).addAccount},
	"fix-provider": {usage: "fix-provider <userId>", minArgs: 1, maxArgs: 1, run: (*App).fixProvider},
	"check-user":   {usage: "check-user <userId>", minArgs: 1, maxArgs: 1, run: (*App).checkUser},
	"check-users":  {usage: "check-users", run: (*App).checkUsers},
	"migrate":      {usage: "migrate", run: (*App).runMigrate},
}

var commandOrder = []string{"setup-admin", "set-password", "add-account", "fix-provider", "check-user", "check-users", "migrate"}

// Run executes the subcommand named in args (os.Args[1:], flags included)
// and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	pos, unknown := flagx.Split(args, config.ValueFlags)
	if len(unknown) > 0 {
		// not echoed: the argument may be a password
		fmt.Fprintln(a.stderr, "unknown flag; put values starting with '-' after --")
		a.usage()
		return ExitFailure
	}
	if len(pos) == 0 {
		a.usage()
		return ExitFailure
	}

	name, rest := pos[0], pos[1:]
	if name == "help" {
		a.usage()
		return ExitOK
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(a.stderr, "unknown command %q\n", name)
		a.usage()
		return ExitFailure
	}
	if len(rest) < cmd.minArgs || len(rest) > cmd.maxArgs || (len(rest) > 0 && rest[0] == "") {
		fmt.Fprintf(a.stderr, "usage: saasctl [flags] %s\n", cmd.usage)
		return ExitFailure
	}

	if err := a.config.Validate(); err != nil {
		fmt.Fprintf(a.stderr, "configuration error: %v\n", err)
		return ExitFailure
	}

	return cmd.run(a, ctx, rest)
}

func (a *App) usage() {
	fmt.Fprintln(a.stderr, "usage: saasctl [flags] <command> [args]")
	fmt.Fprintln(a.stderr)
	fmt.Fprintln(a.stderr, "commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(a.stderr, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(a.stderr)
	fmt.Fprintln(a.stderr, "flags:")
	fmt.Fprintln(a.stderr, "  -d dsn       database DSN (DATABASE_URL)")
	fmt.Fprintln(a.stderr, "  -a emails    admin allowlist (ADMIN_EMAILS)")
	fmt.Fprintln(a.stderr, "  -p id        credential provider id (AUTH_CREDENTIAL_PROVIDER_ID)")
	fmt.Fprintln(a.stderr, "  -f format    log format: auto, json, console (LOG_FORMAT)")
	fmt.Fprintln(a.stderr, "  -l level     log level (LOG_LEVEL)")
	fmt.Fprintln(a.stderr, "  -n limit     check-users row limit")
	fmt.Fprintln(a.stderr, "  -t seconds   store connect timeout")
	fmt.Fprintln(a.stderr, "  -c file      JSON config file")
}
