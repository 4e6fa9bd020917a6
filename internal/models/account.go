// Package models holds the plain records moved between repositories and
// services.
package models

import "time"

// DefaultProfilePicture is the value a fresh account row carries.
const DefaultProfilePicture = "default.png"

// Account is one row of the credentials table.
type Account struct {
	ID             int64
	Username       string
	PasswordHash   string
	Email          string
	ProfilePicture string
	LastLogin      *time.Time
	RegisteredAt   time.Time
	VaultExists    bool

	// Master holds the master password verifier and KDF salt, nil until the
	// user sets up a vault.
	Master *MasterCredentials
}

// HasMasterPassword reports whether a vault master password was set up.
func (a *Account) HasMasterPassword() bool {
	return a != nil && a.Master != nil
}

// MasterCredentials is the stored half of a master password: a bcrypt hash
// of the derived key and the salt the key was derived with. Both are
// base64url text.
type MasterCredentials struct {
	Hash string
	Salt string
}
