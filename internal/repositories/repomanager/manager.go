package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/saasctl/internal/dbx"
	"github.com/dmitrijs2005/saasctl/internal/repositories/accounts"
	"github.com/dmitrijs2005/saasctl/internal/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Accounts(db dbx.DBTX) accounts.Repository
}
