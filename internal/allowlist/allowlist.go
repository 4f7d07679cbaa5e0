// Package allowlist holds the set of email addresses that may be elevated to
// admin.
package allowlist

import "github.com/dmitrijs2005/saasctl/internal/config"

// List is an ordered admin allowlist. The order is the configured one and is
// only used when the list is printed.
type List []string

// Parse reads a comma-separated allowlist. Items are trimmed and empty items
// dropped, so Parse("") is an empty list and denies everyone.
func Parse(s string) List {
	return List(config.SplitList(s))
}

// Contains reports whether email is on the list. The comparison is exact: no
// case folding and no trimming of email.
func (l List) Contains(email string) bool {
	for _, e := range l {
		if e == email {
			return true
		}
	}
	return false
}

// IsAllowedAdmin reports whether email may be elevated to admin.
func IsAllowedAdmin(email string, l List) bool {
	return l.Contains(email)
}
