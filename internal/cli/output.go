package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/dmitrijs2005/saasctl/internal/dbx"
	"github.com/dmitrijs2005/saasctl/internal/services"
)

var hints = []struct {
	err  error
	hint string
}{
	{common.ErrNotAllowlisted, "add the email to ADMIN_EMAILS (or -a) and rerun"},
	{common.ErrUserNotFound, "the user has to sign up in the application first"},
	{common.ErrNoAccountRecord, "create a credential record first: saasctl add-account <userId>"},
}

// fail prints err to stderr and returns the exit code for it. Every refusal
// and every failure exits non-zero.
func (a *App) fail(err error) int {
	switch {
	case common.IsRefusal(err):
		fmt.Fprintf(a.stderr, "refused: %v\n", err)
		for _, h := range hints {
			if errors.Is(err, h.err) {
				fmt.Fprintf(a.stderr, "hint: %s\n", h.hint)
			}
		}
	case errors.Is(err, dbx.ErrConnect), errors.Is(err, common.ErrStoreUnavailable):
		fmt.Fprintf(a.stderr, "error: store unavailable: %v\n", err)
	default:
		fmt.Fprintf(a.stderr, "error: %v\n", err)
	}
	return ExitFailure
}

func printReport(w io.Writer, r *services.UserReport) {
	u := r.User
	fmt.Fprintf(w, "user %s\n", u.ID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "  name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "  role:\t%s\n", u.Role)
	fmt.Fprintf(tw, "  email verified:\t%t\n", u.EmailVerified)
	fmt.Fprintf(tw, "  created:\t%s\n", formatTime(u.CreatedAt))
	fmt.Fprintf(tw, "  password login:\t%s\n", yesNo(r.HasCredential))
	fmt.Fprintf(tw, "  accounts:\t%d\n", len(r.Accounts))
	for _, acc := range r.Accounts {
		fmt.Fprintf(tw, "    %s\tprovider=%s\tpassword=%s\tcreated=%s\n",
			acc.ID, acc.ProviderID, yesNo(acc.HasPassword), formatTime(acc.CreatedAt))
	}
	_ = tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
