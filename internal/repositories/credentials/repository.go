// Package credentials stores accounts in the credentials table.
package credentials

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/models"
)

// Field names a text column of the credentials table that may be read or
// written by name. Anything else is rejected before SQL is built.
type Field string

const (
	Username       Field = "username"
	Password       Field = "password"
	Email          Field = "email"
	ProfilePicture Field = "profile_picture"
)

func (f Field) valid() bool {
	switch f {
	case Username, Password, Email, ProfilePicture:
		return true
	}
	return false
}

type Repository interface {
	Create(ctx context.Context, a *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetField(ctx context.Context, id int64, field Field) (string, error)
	SetField(ctx context.Context, id int64, field Field, value string) error
	FindUserID(ctx context.Context, field Field, value string) (int64, error)
	Exists(ctx context.Context, column, value string) (bool, error)
	SetMasterCredentials(ctx context.Context, id int64, m models.MasterCredentials) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}
