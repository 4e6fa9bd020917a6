package models

// VaultEntry is one stored platform login. Password carries ciphertext when
// read from or written to the store and plaintext only inside the vault
// service after decryption.
type VaultEntry struct {
	ID           int64
	UserID       int64
	PlatformName string
	Website      string
	Username     string
	Email        string
	Password     string
	Index        int
}

// VaultFields is the user supplied part of a vault entry.
type VaultFields struct {
	PlatformName string
	Website      string
	Username     string
	Email        string
	Password     string
}
