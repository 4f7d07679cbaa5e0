package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/dmitrijs2005/saasctl/internal/services"
)

func (a *App) setupAdmin(ctx context.Context, args []string) int {
	email := args[0]
	if !services.ValidEmail(email) {
		return a.fail(common.ErrInvalidEmail)
	}

	var res *services.SetupAdminResult
	err := a.withStore(ctx, func(ctx context.Context, store services.CredentialStore) error {
		var err error
		res, err = a.service(store).SetupAdmin(ctx, email)
		return err
	})
	if err != nil {
		return a.fail(err)
	}

	switch res.Outcome {
	case services.OutcomeAlreadyAdmin:
		fmt.Fprintf(a.stdout, "%s (%s) is already an admin\n", email, res.User.ID)
	default:
		fmt.Fprintf(a.stdout, "%s (%s) is now an admin\n", email, res.User.ID)
	}
	if res.MissingCredential {
		fmt.Fprintf(a.stderr, "warning: %s has no password credential; run: saasctl set-password %s\n", email, res.User.ID)
	}
	return ExitOK
}

func (a *App) setPassword(ctx context.Context, args []string) int {
	userID := args[0]

	password, err := a.resolvePassword(ctx, args[1:])
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	var res *services.SetPasswordResult
	err = a.withStore(ctx, func(ctx context.Context, store services.CredentialStore) error {
		var err error
		res, err = a.service(store).SetPassword(ctx, userID, password)
		return err
	})
	if err != nil {
		return a.fail(err)
	}

	if res.AccountCreated {
		fmt.Fprintf(a.stdout, "password set for user %s (new %s account)\n", userID, a.config.CredentialProviderID)
	} else {
		fmt.Fprintf(a.stdout, "password set for user %s\n", userID)
	}
	return ExitOK
}

func (a *App) addAccount(ctx context.Context, args []string) int {
	userID := args[0]

	var res *services.AddAccountResult
	err := a.withStore(ctx, func(ctx context.Context, store services.CredentialStore) error {
		var err error
		res, err = a.service(store).AddAccount(ctx, userID)
		return err
	})
	if err != nil {
		return a.fail(err)
	}

	if res.Outcome == services.OutcomeAccountExists {
		fmt.Fprintf(a.stdout, "user %s already has a %s account (%s)\n", userID, res.Account.ProviderID, res.Account.ID)
		return ExitOK
	}
	fmt.Fprintf(a.stdout, "created %s account %s for user %s; set a password with: saasctl set-password %s\n",
		res.Account.ProviderID, res.Account.ID, userID, userID)
	return ExitOK
}

func (a *App) fixProvider(ctx context.Context, args []string) int {
	userID := args[0]

	var n int64
	err := a.withStore(ctx, func(ctx context.Context, store services.CredentialStore) error {
		var err error
		n, err = a.service(store).FixProvider(ctx, userID)
		return err
	})
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.stdout, "user %s: %d account(s) updated to provider %s\n", userID, n, a.config.CredentialProviderID)
	return ExitOK
}

func (a *App) checkUser(ctx context.Context, args []string) int {
	userID := args[0]

	var report *services.UserReport
	err := a.withStore(ctx, func(ctx context.Context, store services.CredentialStore) error {
		var err error
		report, err = a.service(store).CheckUser(ctx, userID)
		return err
	})
	if errors.Is(err, common.ErrUserNotFound) {
		fmt.Fprintf(a.stdout, "user %s: not found\n", userID)
		return ExitOK
	}
	if err != nil {
		return a.fail(err)
	}

	printReport(a.stdout, report)
	return ExitOK
}

func (a *App) checkUsers(ctx context.Context, _ []string) int {
	var reports []services.UserReport
	err := a.withStore(ctx, func(ctx context.Context, store services.CredentialStore) error {
		var err error
		reports, err = a.service(store).CheckUsers(ctx, a.config.CheckUsersLimit)
		return err
	})
	if err != nil {
		return a.fail(err)
	}

	if len(reports) == 0 {
		fmt.Fprintln(a.stdout, "no users")
		return ExitOK
	}
	for i := range reports {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		printReport(a.stdout, &reports[i])
	}
	return ExitOK
}

func (a *App) runMigrate(ctx context.Context, _ []string) int {
	if err := a.migrate(ctx); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.stdout, "migrations applied")
	return ExitOK
}
