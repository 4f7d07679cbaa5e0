package accounts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/dmitrijs2005/saasctl/internal/dbx"
	"github.com/dmitrijs2005/saasctl/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByUserID returns all accounts of the user, oldest first. Token columns
// are not selected.
func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) ([]models.Account, error) {
	query :=
		`SELECT id, account_id, provider_id, user_id, password, created_at, updated_at
		 FROM account
		 WHERE user_id = $1
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Account{}
	for rows.Next() {
		var a models.Account
		var password sql.NullString
		if err := rows.Scan(&a.ID, &a.AccountID, &a.ProviderID, &a.UserID, &password, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if password.Valid {
			p := password.String
			a.Password = &p
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Insert stores a new account. Token columns are left NULL.
func (r *PostgresRepository) Insert(ctx context.Context, a *models.Account) error {
	query :=
		`INSERT INTO account (id, account_id, provider_id, user_id, password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	var password sql.NullString
	if a.Password != nil {
		password = sql.NullString{String: *a.Password, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.AccountID, a.ProviderID, a.UserID, password, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// UpdatePassword sets the hash on one account and rewrites its provider id.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, hash, providerID string, now time.Time) error {
	query :=
		`UPDATE account SET password = $1, provider_id = $2, updated_at = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, hash, providerID, now, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// UpdateProvider renames provider id from to to on every account of the user
// and returns the number of rows changed.
func (r *PostgresRepository) UpdateProvider(ctx context.Context, userID, from, to string, now time.Time) (int64, error) {
	query :=
		`UPDATE account SET provider_id = $1, updated_at = $2
		 WHERE user_id = $3 AND provider_id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, to, now, userID, from)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
