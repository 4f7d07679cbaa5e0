// Package services implements the administrative workflows of saasctl:
// elevating an allowlisted user to admin, setting or repairing a password
// credential, and the read-only user reports.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/saasctl/internal/allowlist"
	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/dmitrijs2005/saasctl/internal/cryptox"
	"github.com/dmitrijs2005/saasctl/internal/logging"
	"github.com/dmitrijs2005/saasctl/internal/models"
)

// CredentialStore is the store surface the workflows need. credstore.Store
// and credstore.MemoryStore implement it.
type CredentialStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindAccountsByUserID(ctx context.Context, userID string) ([]models.Account, error)
	ListUsers(ctx context.Context, limit int) ([]models.User, error)
	SetUserRole(ctx context.Context, userID string, role models.Role) error
	UpsertAccountPassword(ctx context.Context, userID, hash, providerID string) (bool, error)
	CreateCredentialAccount(ctx context.Context, userID, providerID string) (*models.Account, bool, error)
	NormalizeProvider(ctx context.Context, userID, providerID string) (int64, error)
}

// Hasher turns a plaintext password into a self-describing encoded hash.
type Hasher func(password []byte) (string, error)

// Options configure an AdminService.
type Options struct {
	Allowlist         allowlist.List
	ProviderID        string   // sentinel written on password accounts
	LegacyProviderIDs []string // older ids that also mark a password account
	Hasher            Hasher   // defaults to cryptox.HashPassword
}

// Outcome is the kind of success a workflow ended with.
type Outcome string

const (
	OutcomeElevated       Outcome = "elevated"
	OutcomeAlreadyAdmin   Outcome = "already-admin"
	OutcomePasswordSet    Outcome = "password-set"
	OutcomeAccountCreated Outcome = "account-created"
	OutcomeAccountExists  Outcome = "account-exists"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the basic local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailShape.MatchString(s)
}

// AdminService runs the workflows against one CredentialStore.
type AdminService struct {
	store      CredentialStore
	allow      allowlist.List
	providerID string
	legacy     []string
	hash       Hasher
	log        logging.Logger
}

func NewAdminService(store CredentialStore, opts Options, log logging.Logger) *AdminService {
	hash := opts.Hasher
	if hash == nil {
		hash = cryptox.HashPassword
	}
	return &AdminService{
		store:      store,
		allow:      opts.Allowlist,
		providerID: opts.ProviderID,
		legacy:     opts.LegacyProviderIDs,
		hash:       hash,
		log:        log,
	}
}

// SetupAdminResult describes a successful setup-admin run.
type SetupAdminResult struct {
	Outcome Outcome
	User    *models.User
	// MissingCredential is set when the user has no password account with a
	// password. Elevation still happens.
	MissingCredential bool
}

// SetupAdmin elevates the user registered under email to admin.
//
// Refusals: common.ErrInvalidEmail, common.ErrNotAllowlisted and
// common.ErrUserNotFound. Nothing is written unless every check passes and
// the user is not an admin yet.
func (s *AdminService) SetupAdmin(ctx context.Context, email string) (*SetupAdminResult, error) {
	log := logging.Component(s.log, "setup-admin")

	if !ValidEmail(email) {
		return nil, common.ErrInvalidEmail
	}

	if !allowlist.IsAllowedAdmin(email, s.allow) {
		log.Error(ctx, "email is not in the admin allowlist",
			"email", email, "allowlist", strings.Join(s.allow, ","))
		return nil, common.ErrNotAllowlisted
	}

	log.Info(ctx, "looking up user", "email", email)
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	log = log.With("user_id", user.ID)

	if user.IsAdmin() {
		log.Warn(ctx, "user is already an admin")
		return &SetupAdminResult{Outcome: OutcomeAlreadyAdmin, User: user}, nil
	}

	accounts, err := s.store.FindAccountsByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	missing := true
	if acc := models.FirstCredential(accounts, s.providerID, s.legacy); acc != nil && acc.HasPassword() {
		missing = false
	}
	if missing {
		log.Warn(ctx, "user has no password credential, run set-password to add one")
	}

	log.Info(ctx, "setting role", "role", models.RoleAdmin)
	if err := s.store.SetUserRole(ctx, user.ID, models.RoleAdmin); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	user.Role = models.RoleAdmin
	log.Info(ctx, "user is now an admin", "email", email)

	return &SetupAdminResult{Outcome: OutcomeElevated, User: user, MissingCredential: missing}, nil
}

// SetPasswordResult describes a successful set-password run.
type SetPasswordResult struct {
	Outcome Outcome
	UserID  string
	// AccountCreated is set when the user had accounts but none of them was a
	// password account, so one was inserted.
	AccountCreated bool
}

// SetPassword hashes password and stores it on the user's password account,
// writing the configured provider id. A user without any account row is
// refused with common.ErrNoAccountRecord and nothing is inserted.
//
// password is wiped once hashed.
func (s *AdminService) SetPassword(ctx context.Context, userID string, password []byte) (*SetPasswordResult, error) {
	defer common.WipeByteArray(password)
	log := logging.Component(s.log, "set-password").With("user_id", userID)

	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", common.ErrInvalidArgument)
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", common.ErrInvalidArgument)
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	accounts, err := s.store.FindAccountsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		log.Error(ctx, "user has no account record, run add-account first")
		return nil, common.ErrNoAccountRecord
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.store.UpsertAccountPassword(ctx, userID, hash, s.providerID)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "password updated", "provider_id", s.providerID, "account_created", created)

	return &SetPasswordResult{Outcome: OutcomePasswordSet, UserID: userID, AccountCreated: created}, nil
}

// AddAccountResult describes a successful add-account run.
type AddAccountResult struct {
	Outcome Outcome
	Account *models.Account
}

// AddAccount makes sure the user has a password account, creating one
// without a password when absent.
func (s *AdminService) AddAccount(ctx context.Context, userID string) (*AddAccountResult, error) {
	log := logging.Component(s.log, "add-account").With("user_id", userID)

	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", common.ErrInvalidArgument)
	}
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	acc, created, err := s.store.CreateCredentialAccount(ctx, userID, s.providerID)
	if err != nil {
		return nil, err
	}

	if !created {
		log.Info(ctx, "password account already exists", "account_id", acc.ID)
		return &AddAccountResult{Outcome: OutcomeAccountExists, Account: acc}, nil
	}
	log.Info(ctx, "password account created", "account_id", acc.ID)
	return &AddAccountResult{Outcome: OutcomeAccountCreated, Account: acc}, nil
}

// FixProvider rewrites legacy provider ids on the user's accounts to the
// configured one and returns the number of rows changed. Nothing changes
// when the user already has an account with the configured id.
func (s *AdminService) FixProvider(ctx context.Context, userID string) (int64, error) {
	log := logging.Component(s.log, "fix-provider").With("user_id", userID)

	if userID == "" {
		return 0, fmt.Errorf("%w: empty user id", common.ErrInvalidArgument)
	}
	if _, err := s.findUser(ctx, userID); err != nil {
		return 0, err
	}

	n, err := s.store.NormalizeProvider(ctx, userID, s.providerID)
	if err != nil {
		return 0, err
	}
	log.Info(ctx, "provider ids normalized", "provider_id", s.providerID, "rows", n)
	return n, nil
}

func (s *AdminService) findUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
