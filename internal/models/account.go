package models

import "time"

// Account is a row of the account table: one authentication method of a
// user. OAuth token columns exist in the table but are never read or
// written here.
type Account struct {
	ID         string
	AccountID  string
	ProviderID string
	UserID     string
	Password   *string // nil means no password set
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasPassword reports whether a password hash is stored.
func (a *Account) HasPassword() bool {
	return a.Password != nil && *a.Password != ""
}

// IsCredential reports whether the account is a password account, i.e. its
// provider id is the configured sentinel or one of the legacy aliases.
func (a *Account) IsCredential(providerID string, legacy []string) bool {
	if a.ProviderID == providerID {
		return true
	}
	for _, p := range legacy {
		if a.ProviderID == p {
			return true
		}
	}
	return false
}

// FirstCredential returns the first password account in accounts, or nil.
func FirstCredential(accounts []Account, providerID string, legacy []string) *Account {
	for i := range accounts {
		if accounts[i].IsCredential(providerID, legacy) {
			return &accounts[i]
		}
	}
	return nil
}
