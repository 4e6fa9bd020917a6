// Package services holds the account, reset token and vault operations the
// front-end calls. Each call runs under the configured store deadline and
// multi-row changes run in one transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/config"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lightningpass/internal/session"
	"github.com/dmitrijs2005/lightningpass/internal/validation"
)

// base carries what every service needs to reach the store.
type base struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	logger      logging.Logger
	now         func() time.Time
}

func newBase(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) base {
	return base{
		db:          db,
		repomanager: m,
		config:      cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// isDomainError reports errors that describe the request rather than the
// store. They are returned unchanged instead of being classified.
func isDomainError(err error) bool {
	var vf *validation.Failure
	var denied *session.Denied
	switch {
	case errors.As(err, &vf), errors.As(err, &denied):
		return true
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrDecryption),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrMasterPasswordNotSet),
		errors.Is(err, common.ErrMissingKeyMaterial):
		return true
	}
	return false
}

// run executes fn under the store deadline.
func (b *base) run(ctx context.Context, fn func(ctx context.Context) error) error {
	var domainErr error
	err := dbx.WithTimeout(ctx, b.config.StoreTimeout, func(ctx context.Context) error {
		err := fn(ctx)
		if isDomainError(err) {
			domainErr = err
		}
		return err
	})
	if domainErr != nil {
		return domainErr
	}
	return err
}

// inTx executes fn in a transaction under the store deadline.
func (b *base) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return b.run(ctx, func(ctx context.Context) error {
		return dbx.WithTx(ctx, b.db, nil, fn)
	})
}
