package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/dmitrijs2005/saasctl/internal/models"
)

// AccountReport is the printable part of an account row. The password hash
// itself is never included.
type AccountReport struct {
	ID           string
	AccountID    string
	ProviderID   string
	HasPassword  bool
	IsCredential bool
	CreatedAt    time.Time
}

// UserReport is a read-only snapshot of a user and its accounts.
type UserReport struct {
	User     models.User
	Accounts []AccountReport
	// HasCredential is set when some account is a password account with a
	// password, i.e. the user can log in with email and password.
	HasCredential bool
}

// CheckUser reports on one user. A missing user is common.ErrUserNotFound.
func (s *AdminService) CheckUser(ctx context.Context, userID string) (*UserReport, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", common.ErrInvalidArgument)
	}
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.report(ctx, u)
}

// CheckUsers reports on up to limit users, newest first.
func (s *AdminService) CheckUsers(ctx context.Context, limit int) ([]UserReport, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", common.ErrInvalidArgument)
	}

	users, err := s.store.ListUsers(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]UserReport, 0, len(users))
	for i := range users {
		r, err := s.report(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *AdminService) report(ctx context.Context, u *models.User) (*UserReport, error) {
	accounts, err := s.store.FindAccountsByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	r := &UserReport{User: *u, Accounts: make([]AccountReport, 0, len(accounts))}
	for i := range accounts {
		a := &accounts[i]
		ar := AccountReport{
			ID:           a.ID,
			AccountID:    a.AccountID,
			ProviderID:   a.ProviderID,
			HasPassword:  a.HasPassword(),
			IsCredential: a.IsCredential(s.providerID, s.legacy),
			CreatedAt:    a.CreatedAt,
		}
		if ar.IsCredential && ar.HasPassword {
			r.HasCredential = true
		}
		r.Accounts = append(r.Accounts, ar)
	}
	return r, nil
}
