package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"golang.org/x/term"
)

// Test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// resolvePassword returns the password for set-password: the argument when
// given, a no-echo prompt when stdin is a terminal, and the configured
// fallback otherwise. The value is never printed or logged.
func (a *App) resolvePassword(ctx context.Context, args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(args[0]), nil
	}

	if a.stdin != nil && isTerminal(int(a.stdin.Fd())) {
		return a.promptPassword()
	}

	if a.config.DefaultPassword == "" {
		return nil, fmt.Errorf("%w: no password given and no fallback configured", common.ErrInvalidArgument)
	}
	a.log.Warn(ctx, "no password given, using the configured fallback password; change it after first login")
	return []byte(a.config.DefaultPassword), nil
}

func (a *App) promptPassword() ([]byte, error) {
	fd := int(a.stdin.Fd())

	fmt.Fprint(a.stderr, "New password: ")
	pw, err := readPassword(fd)
	fmt.Fprintln(a.stderr)
	if err != nil {
		return nil, err
	}

	fmt.Fprint(a.stderr, "Repeat password: ")
	again, err := readPassword(fd)
	fmt.Fprintln(a.stderr)
	defer common.WipeByteArray(again)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}

	if len(pw) == 0 {
		return nil, fmt.Errorf("%w: empty password", common.ErrInvalidArgument)
	}
	if !bytes.Equal(pw, again) {
		common.WipeByteArray(pw)
		return nil, fmt.Errorf("%w: passwords do not match", common.ErrInvalidArgument)
	}
	return pw, nil
}
