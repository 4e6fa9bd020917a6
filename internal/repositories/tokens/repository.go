// Package tokens stores password reset tokens in the tokens table.
package tokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/models"
)

// Repository defines the reset token rows a user may hold. The tokens table
// allows at most one row per user.
type Repository interface {
	// Insert stores token for userID created at createdAt.
	Insert(ctx context.Context, userID int64, token string, createdAt time.Time) error

	// Find returns the row for token or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.ResetToken, error)

	// Delete removes token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUser removes the token held by userID, if any.
	DeleteByUser(ctx context.Context, userID int64) error

	// DeleteCreatedBefore removes every token created before cutoff and
	// returns how many rows went away.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
