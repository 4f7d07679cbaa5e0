// Package credstore is the read/write gateway to the "user" and account
// tables. Every failure other than a missing row is reported as
// common.ErrStoreUnavailable joined with its cause; nothing is retried.
package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/dmitrijs2005/saasctl/internal/dbx"
	"github.com/dmitrijs2005/saasctl/internal/logging"
	"github.com/dmitrijs2005/saasctl/internal/models"
	"github.com/dmitrijs2005/saasctl/internal/repositories/repomanager"
	"github.com/google/uuid"
)

// Store is the PostgreSQL credential store. It is bound to one *sql.DB for
// the lifetime of a command.
type Store struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	legacy []string
	log    logging.Logger
	now    func() time.Time
}

// New returns a Store. legacy lists provider ids that also mark a password
// account; writes replace them with the configured sentinel.
func New(db *sql.DB, repos repomanager.RepositoryManager, legacy []string, log logging.Logger) *Store {
	return &Store{
		db:     db,
		repos:  repos,
		legacy: legacy,
		log:    logging.Component(log, "credstore"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func wrap(err error) error {
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
}

// FindUserByEmail returns the user with exactly this email. If the table
// holds duplicates the oldest row wins and a warning is logged.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	found, err := s.repos.Users(s.db).FindByEmail(ctx, email, 2)
	if err != nil {
		return nil, wrap(err)
	}
	if len(found) == 0 {
		return nil, common.ErrorNotFound
	}
	if len(found) > 1 {
		s.log.Warn(ctx, "duplicate users for email, using the oldest",
			"email", email, "user_id", found[0].ID, "other_id", found[1].ID)
	}
	return &found[0], nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repos.Users(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

// FindAccountsByUserID returns the user's accounts, oldest first. An empty
// slice is a valid result.
func (s *Store) FindAccountsByUserID(ctx context.Context, userID string) ([]models.Account, error) {
	list, err := s.repos.Accounts(s.db).FindByUserID(ctx, userID)
	if err != nil {
		return nil, wrap(err)
	}
	return list, nil
}

func (s *Store) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	list, err := s.repos.Users(s.db).List(ctx, limit)
	if err != nil {
		return nil, wrap(err)
	}
	return list, nil
}

// SetUserRole changes the role of one user. common.ErrorNotFound means no row
// matched.
func (s *Store) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: role %q", common.ErrInvalidArgument, role)
	}
	return wrap(s.repos.Users(s.db).SetRole(ctx, userID, role, s.now()))
}

// UpsertAccountPassword stores hash on the user's first password account and
// sets its provider id to providerID. When the user has no password account
// a new one is inserted. The read and the write share one transaction, so a
// second password account is never produced. It reports whether a row was
// inserted.
func (s *Store) UpsertAccountPassword(ctx context.Context, userID, hash, providerID string) (bool, error) {
	created := false

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)

		list, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		s.log.Debug(ctx, "accounts loaded", "user_id", userID, "count", len(list))

		now := s.now()
		if acc := models.FirstCredential(list, providerID, s.legacy); acc != nil {
			if acc.ProviderID != providerID {
				s.log.Info(ctx, "normalizing provider id", "account_id", acc.ID,
					"from", acc.ProviderID, "to", providerID)
			}
			return repo.UpdatePassword(ctx, acc.ID, hash, providerID, now)
		}

		acc, err := newCredentialAccount(userID, providerID, now)
		if err != nil {
			return err
		}
		acc.Password = &hash
		if err := repo.Insert(ctx, acc); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, wrap(err)
	}

	return created, nil
}

// CreateCredentialAccount inserts a password account with no password for
// the user, unless one already exists. The existing or new account is
// returned together with whether it was inserted.
func (s *Store) CreateCredentialAccount(ctx context.Context, userID, providerID string) (*models.Account, bool, error) {
	var result *models.Account
	created := false

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)

		list, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if acc := models.FirstCredential(list, providerID, s.legacy); acc != nil {
			result = acc
			return nil
		}

		acc, err := newCredentialAccount(userID, providerID, s.now())
		if err != nil {
			return err
		}
		if err := repo.Insert(ctx, acc); err != nil {
			return err
		}
		result, created = acc, true
		return nil
	})
	if err != nil {
		return nil, false, wrap(err)
	}

	return result, created, nil
}

// NormalizeProvider rewrites every legacy provider id on the user's accounts
// to providerID and returns how many rows changed. When the user already has
// a providerID row the legacy rows are left alone and a warning is logged,
// so at most one password account carries the sentinel.
func (s *Store) NormalizeProvider(ctx context.Context, userID, providerID string) (int64, error) {
	var total int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)

		list, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		s.log.Debug(ctx, "accounts loaded", "user_id", userID, "count", len(list))

		if hasProvider(list, providerID) {
			if legacy := legacyRows(list, providerID, s.legacy); len(legacy) > 0 {
				s.log.Warn(ctx, "user has both current and legacy password accounts, leaving legacy rows",
					"user_id", userID, "provider_id", providerID, "legacy_account_ids", legacy)
			}
			return nil
		}

		now := s.now()
		for _, from := range s.legacy {
			if from == providerID {
				continue
			}
			n, err := repo.UpdateProvider(ctx, userID, from, providerID, now)
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, wrap(err)
	}

	return total, nil
}

func hasProvider(list []models.Account, providerID string) bool {
	for i := range list {
		if list[i].ProviderID == providerID {
			return true
		}
	}
	return false
}

func legacyRows(list []models.Account, providerID string, legacy []string) []string {
	var ids []string
	for i := range list {
		a := &list[i]
		if a.ProviderID != providerID && a.IsCredential(providerID, legacy) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func newCredentialAccount(userID, providerID string, now time.Time) (*models.Account, error) {
	accountID, err := common.MakeRandHexString(12)
	if err != nil {
		return nil, err
	}
	return &models.Account{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		ProviderID: providerID,
		UserID:     userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
