package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/dmitrijs2005/saasctl/internal/dbx"
	"github.com/dmitrijs2005/saasctl/internal/models"
)

const userColumns = `id, name, email, email_verified, role, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (models.User, error) {
	var u models.User
	var role string
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.EmailVerified, &role, &u.CreatedAt, &u.UpdatedAt)
	u.Role = models.Role(role)
	return u, err
}

// FindByEmail returns at most limit users with the given email, oldest first.
// The email is matched exactly.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string, limit int) ([]models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM "user"
		 WHERE email = $1
		 ORDER BY created_at, id
		 LIMIT $2
		 `

	return r.queryUsers(ctx, query, email, limit)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM "user"
		 WHERE id = $1
		 `

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &u, nil
}

// List returns up to limit users, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM "user"
		 ORDER BY created_at DESC, id
		 LIMIT $1
		 `

	return r.queryUsers(ctx, query, limit)
}

func (r *PostgresRepository) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetRole(ctx context.Context, id string, role models.Role, now time.Time) error {
	query :=
		`UPDATE "user" SET role = $1, updated_at = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, string(role), now, id)
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
