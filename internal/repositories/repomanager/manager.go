// Package repomanager vends repositories bound to a DBTX for the configured
// SQL dialect and applies the schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/credentials"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/tokens"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/vaults"
)

// RepositoryManager hands out repositories over either the pool or an open
// transaction, so services decide the transaction scope.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Credentials(db dbx.DBTX) credentials.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Vaults(db dbx.DBTX) vaults.Repository
}
