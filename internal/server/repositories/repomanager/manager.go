package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/phoneauth/internal/dbx"
	"github.com/dmitrijs2005/phoneauth/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/phoneauth/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
}
