// Package vaults stores vault entries in the vaults table. Every user's
// entries carry a dense 1..N vault_index.
package vaults

import (
	"context"

	"github.com/dmitrijs2005/lightningpass/internal/models"
)

type Repository interface {
	// Create inserts e at the next free index for e.UserID and fills in
	// e.ID and e.Index.
	Create(ctx context.Context, e *models.VaultEntry) (*models.VaultEntry, error)

	// Update rewrites the fields of the entry at (e.UserID, e.Index).
	Update(ctx context.Context, e *models.VaultEntry) error

	// UpdatePassword replaces the ciphertext of the entry with the given id.
	UpdatePassword(ctx context.Context, id int64, ciphertext string) error

	// Delete removes the entry at index and shifts later entries down by
	// one so the range stays dense. Run it inside a transaction.
	Delete(ctx context.Context, userID int64, index int) error

	Get(ctx context.Context, userID int64, index int) (*models.VaultEntry, error)
	List(ctx context.Context, userID int64) ([]*models.VaultEntry, error)
	Exists(ctx context.Context, userID int64, index int) (bool, error)
	Count(ctx context.Context, userID int64) (int, error)
}
