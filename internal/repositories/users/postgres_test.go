package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/dmitrijs2005/saasctl/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "name", "email", "email_verified", "role", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestFindByEmail_ReturnsRowsInOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,.*FROM\s+"user"\s+WHERE\s+email\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id\s+LIMIT\s+\$2\s*$`

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	rows := sqlmock.NewRows(userCols).
		AddRow("u1", "Alice", "alice@acme.io", true, "user", t1, t1).
		AddRow("u2", "Alice 2", "alice@acme.io", false, "admin", t2, t2)

	mock.ExpectQuery(q).WithArgs("alice@acme.io", 2).WillReturnRows(rows)

	got, err := repo.FindByEmail(context.Background(), "alice@acme.io", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].ID)
	assert.Equal(t, models.RoleUser, got[0].Role)
	assert.True(t, got[0].EmailVerified)
	assert.Equal(t, models.RoleAdmin, got[1].Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NoRowsIsEmptySlice(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT.*FROM\s+"user"\s+WHERE\s+email`).
		WithArgs("nobody@acme.io", 2).
		WillReturnRows(sqlmock.NewRows(userCols))

	got, err := repo.FindByEmail(context.Background(), "nobody@acme.io", 2)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT.*FROM\s+"user"`).
		WillReturnError(errors.New("db down"))

	_, err := repo.FindByEmail(context.Background(), "a@b.co", 2)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByEmail_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(userCols).
		AddRow("u1", "A", "a@b.co", false, "user", now, now).
		RowError(0, errors.New("broken row"))
	mock.ExpectQuery(`(?s)^SELECT.*FROM\s+"user"`).WillReturnRows(rows)

	_, err := repo.FindByEmail(context.Background(), "a@b.co", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken row")
}

func TestFindByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+"user"\s+WHERE\s+id\s*=\s*\$1\s*$`
	now := time.Now()
	mock.ExpectQuery(q).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "Alice", "alice@acme.io", true, "admin", now, now))

	got, err := repo.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice@acme.io", got.Email)
	assert.True(t, got.IsAdmin())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT.*WHERE\s+id\s*=\s*\$1`).WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFindByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT.*WHERE\s+id\s*=\s*\$1`).WithArgs("u1").
		WillReturnError(errors.New("db down"))

	_, err := repo.FindByID(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, err.Error(), "db error")
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT.*FROM\s+"user"\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+LIMIT\s+\$1\s*$`
	now := time.Now()
	mock.ExpectQuery(q).WithArgs(10).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u2", "B", "b@acme.io", false, "user", now, now).
			AddRow("u1", "A", "a@acme.io", true, "admin", now, now))

	got, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u2", got[0].ID)
}

func TestSetRole_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+"user"\s+SET\s+role\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$3\s*$`
	now := time.Now().UTC()
	mock.ExpectExec(q).WithArgs("admin", now, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetRole(context.Background(), "u1", models.RoleAdmin, now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRole_NoRowsIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+"user"`).
		WithArgs("admin", sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetRole(context.Background(), "ghost", models.RoleAdmin, time.Now())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSetRole_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+"user"`).
		WillReturnError(errors.New("db down"))

	err := repo.SetRole(context.Background(), "u1", models.RoleAdmin, time.Now())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSetRole_RowsAffectedError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+"user"`).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))

	err := repo.SetRole(context.Background(), "u1", models.RoleAdmin, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no count")
}
