package validation

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/lightningpass/internal/models"
)

// Lookup is the store query the existence checks need.
type Lookup interface {
	Exists(ctx context.Context, column, value string) (bool, error)
}

// Checker runs the existence checks against a Lookup. Pattern checks stay
// free functions so they can be tested without a store.
type Checker struct {
	lookup Lookup
}

func NewChecker(lookup Lookup) *Checker {
	return &Checker{lookup: lookup}
}

// unique checks value against column. With shouldExist false a present
// value fails with taken; with shouldExist true an absent value fails with
// AccountNotFound.
func (c *Checker) unique(ctx context.Context, column, value string, shouldExist bool, taken Kind) error {
	found, err := c.lookup.Exists(ctx, column, value)
	if err != nil {
		return err
	}
	switch {
	case shouldExist && !found:
		return fail(AccountNotFound, column)
	case !shouldExist && found:
		return fail(taken, column)
	}
	return nil
}

// Username runs the pattern check and then the existence check.
func (c *Checker) Username(ctx context.Context, username string, shouldExist bool) error {
	if err := Username(username); err != nil {
		return err
	}
	return c.unique(ctx, "username", username, shouldExist, UsernameTaken)
}

// Email runs the pattern check on the normalized address and then the
// existence check.
func (c *Checker) Email(ctx context.Context, email string, shouldExist bool) error {
	if err := Email(email); err != nil {
		return err
	}
	return c.unique(ctx, "email", NormalizeEmail(email), shouldExist, EmailTaken)
}

// VaultFields validates a vault entry and returns it with the website and
// email normalized. Every field must be non-empty.
func VaultFields(f models.VaultFields) (models.VaultFields, error) {
	for _, v := range []string{f.PlatformName, f.Website, f.Username, f.Email, f.Password} {
		if strings.TrimSpace(v) == "" {
			return f, fail(VaultFieldEmpty, "")
		}
	}

	website, err := NormalizeURL(f.Website)
	if err != nil {
		return f, err
	}
	if err := Email(f.Email); err != nil {
		return f, err
	}

	f.Website = website
	f.Email = NormalizeEmail(f.Email)
	return f, nil
}
