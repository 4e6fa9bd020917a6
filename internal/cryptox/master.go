package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/models"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the derived vault key length.
	KeySize = 32
	// SaltSize is the KDF salt length.
	SaltSize = 16
	// MinIterations is the PBKDF2 floor.
	MinIterations = 100_000
)

// DeriveKey stretches password into a KeySize key with PBKDF2-SHA256.
func DeriveKey(password string, salt []byte, iterations int) ([]byte, error) {
	if len(salt) == 0 {
		return nil, fmt.Errorf("derive key: %w", common.ErrMissingKeyMaterial)
	}
	if iterations < MinIterations {
		iterations = MinIterations
	}
	return pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New), nil
}

// verifierInput is what bcrypt sees: the key in its base64url text form,
// which keeps it well under bcrypt's 72 byte input limit.
func verifierInput(key []byte) []byte {
	return []byte(base64.URLEncoding.EncodeToString(key))
}

// HashMasterPassword generates a fresh salt, derives the vault key and
// returns the stored credentials together with the key. The key is never
// persisted.
func HashMasterPassword(password string, cost, iterations int) (models.MasterCredentials, []byte, error) {
	salt := common.GenerateRandByteArray(SaltSize)
	key, err := DeriveKey(password, salt, iterations)
	if err != nil {
		return models.MasterCredentials{}, nil, err
	}

	h, err := bcryptHash(verifierInput(key), cost)
	if err != nil {
		common.WipeByteArray(key)
		return models.MasterCredentials{}, nil, err
	}

	return models.MasterCredentials{
		Hash: h,
		Salt: base64.URLEncoding.EncodeToString(salt),
	}, key, nil
}

// AuthenticateMasterPassword re-derives the key from password and the
// stored salt and checks it against the stored verifier. It returns the key
// on success.
func AuthenticateMasterPassword(password string, stored models.MasterCredentials, iterations int) ([]byte, bool, error) {
	salt, err := base64.URLEncoding.DecodeString(stored.Salt)
	if err != nil || len(salt) == 0 {
		return nil, false, fmt.Errorf("master salt: %w", common.ErrMissingKeyMaterial)
	}

	key, err := DeriveKey(password, salt, iterations)
	if err != nil {
		return nil, false, err
	}

	ok, err := CheckPassword(string(verifierInput(key)), stored.Hash)
	if err != nil || !ok {
		common.WipeByteArray(key)
		return nil, false, err
	}
	return key, true, nil
}
