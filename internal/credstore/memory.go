package credstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/dmitrijs2005/saasctl/internal/models"
)

// Write describes one mutation applied to a MemoryStore.
type Write struct {
	Op     string // set-role, update-password, insert-account or update-provider
	UserID string
	Target string // account id for account writes
}

// MemoryStore is an in-memory credential store for tests and dry runs. It
// keeps rows in insertion order and records every mutation in Writes.
type MemoryStore struct {
	mu       sync.Mutex
	users    []models.User
	accounts []models.Account
	legacy   []string
	seq      int

	// Err, when set, is returned (wrapped in ErrStoreUnavailable) by every call.
	Err    error
	Writes []Write
}

func NewMemoryStore(legacy []string) *MemoryStore {
	return &MemoryStore{legacy: legacy}
}

// AddUser seeds a user row. It is not recorded as a write.
func (m *MemoryStore) AddUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	m.users = append(m.users, u)
}

// AddAccount seeds an account row. It is not recorded as a write.
func (m *MemoryStore) AddAccount(a models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = append(m.accounts, a)
}

// Accounts returns a copy of the user's accounts.
func (m *MemoryStore) Accounts(userID string) []models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accountsOf(userID)
}

func (m *MemoryStore) fail() error {
	if m.Err != nil {
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, m.Err)
	}
	return nil
}

func (m *MemoryStore) accountsOf(userID string) []models.Account {
	out := []models.Account{}
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

func (m *MemoryStore) userIndex(id string) int {
	for i := range m.users {
		if m.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *MemoryStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	if i := m.userIndex(id); i >= 0 {
		u := m.users[i]
		return &u, nil
	}
	return nil, common.ErrorNotFound
}

func (m *MemoryStore) FindAccountsByUserID(ctx context.Context, userID string) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	return m.accountsOf(userID), nil
}

// ListUsers returns up to limit users, newest first.
func (m *MemoryStore) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	out := make([]models.User, len(m.users))
	copy(out, m.users)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	if !role.Valid() {
		return fmt.Errorf("%w: role %q", common.ErrInvalidArgument, role)
	}
	i := m.userIndex(userID)
	if i < 0 {
		return common.ErrorNotFound
	}
	m.users[i].Role = role
	m.users[i].UpdatedAt = time.Now().UTC()
	m.Writes = append(m.Writes, Write{Op: "set-role", UserID: userID})
	return nil
}

func (m *MemoryStore) UpsertAccountPassword(ctx context.Context, userID, hash, providerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return false, err
	}

	if i := m.firstCredential(userID, providerID); i >= 0 {
		m.accounts[i].Password = &hash
		m.accounts[i].ProviderID = providerID
		m.accounts[i].UpdatedAt = time.Now().UTC()
		m.Writes = append(m.Writes, Write{Op: "update-password", UserID: userID, Target: m.accounts[i].ID})
		return false, nil
	}

	acc := m.newAccount(userID, providerID)
	acc.Password = &hash
	m.accounts = append(m.accounts, acc)
	m.Writes = append(m.Writes, Write{Op: "insert-account", UserID: userID, Target: acc.ID})
	return true, nil
}

func (m *MemoryStore) CreateCredentialAccount(ctx context.Context, userID, providerID string) (*models.Account, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, false, err
	}

	if i := m.firstCredential(userID, providerID); i >= 0 {
		acc := m.accounts[i]
		return &acc, false, nil
	}

	acc := m.newAccount(userID, providerID)
	m.accounts = append(m.accounts, acc)
	m.Writes = append(m.Writes, Write{Op: "insert-account", UserID: userID, Target: acc.ID})
	return &acc, true, nil
}

func (m *MemoryStore) NormalizeProvider(ctx context.Context, userID, providerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return 0, err
	}

	current := m.accountsOf(userID)
	if hasProvider(current, providerID) {
		return 0, nil
	}

	var n int64
	for i := range m.accounts {
		a := &m.accounts[i]
		if a.UserID != userID || a.ProviderID == providerID || !a.IsCredential(providerID, m.legacy) {
			continue
		}
		a.ProviderID = providerID
		a.UpdatedAt = time.Now().UTC()
		m.Writes = append(m.Writes, Write{Op: "update-provider", UserID: userID, Target: a.ID})
		n++
	}
	return n, nil
}

func (m *MemoryStore) firstCredential(userID, providerID string) int {
	for i := range m.accounts {
		if m.accounts[i].UserID == userID && m.accounts[i].IsCredential(providerID, m.legacy) {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) newAccount(userID, providerID string) models.Account {
	m.seq++
	now := time.Now().UTC()
	return models.Account{
		ID:         fmt.Sprintf("mem-%d", m.seq),
		AccountID:  fmt.Sprintf("%024x", m.seq),
		ProviderID: providerID,
		UserID:     userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
