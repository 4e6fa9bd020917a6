package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/common"
)

// Classify maps a driver error to common.ErrStoreTimeout when a deadline
// expired and to common.ErrStore otherwise. sql.ErrNoRows becomes
// common.ErrorNotFound. Nil stays nil.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrStore), errors.Is(err, common.ErrStoreTimeout), errors.Is(err, common.ErrorNotFound):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", common.ErrStoreTimeout, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrStore, err)
	}
}

// WithTimeout runs fn under a deadline of d and classifies its error.
// Drivers do not always wrap context.DeadlineExceeded, so a failure after
// the deadline expired is reported as a timeout too. A zero d runs fn with
// ctx unchanged.
func WithTimeout(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return Classify(err)
}
