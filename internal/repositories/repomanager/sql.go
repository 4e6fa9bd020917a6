package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/migrations"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/credentials"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/tokens"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/vaults"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends the database/sql backed repositories.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

// NewSQLRepositoryManager returns a manager for the dialect of driver
// ("sqlite" or "pgx").
func NewSQLRepositoryManager(driver string) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dbx.DialectFor(driver)}
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect {
	return m.dialect
}

func (m *SQLRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	return tokens.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Vaults(db dbx.DBTX) vaults.Repository {
	return vaults.NewSQLRepository(db, m.dialect)
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// RunMigrations applies the embedded schema for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, m.dialect)
}

// Open opens driver/dsn, pings it within timeout and runs the migrations.
func Open(ctx context.Context, driver, dsn string, m RepositoryManager) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dbx.Classify(err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// openDB is a seam for testing Connect.
var openDB = Open

// connectBackoff is the first retry delay of Connect; tests shorten it.
var connectBackoff = 200 * time.Millisecond

// Connect is Open retried with exponential backoff while the database is
// unreachable. Migration failures and bad DSNs are returned at once.
func Connect(ctx context.Context, driver, dsn string, m RepositoryManager, retries uint64) (*sql.DB, error) {
	var db *sql.DB
	b := retry.WithMaxRetries(retries, retry.NewExponential(connectBackoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		db, err = openDB(ctx, driver, dsn, m)
		if errors.Is(err, common.ErrStore) || errors.Is(err, common.ErrStoreTimeout) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
