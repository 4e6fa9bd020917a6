package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/lightningpass/internal/common"
)

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("vault key: %w", common.ErrMissingKeyMaterial)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptSecret seals plaintext with AES-256-GCM under key. The result is
// base64url(nonce || ciphertext || tag).
func EncryptSecret(key []byte, plaintext string) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.URLEncoding.EncodeToString(sealed), nil
}

// DecryptSecret opens a value produced by EncryptSecret. Any failure to
// decode or authenticate yields common.ErrDecryption, which is what a wrong
// master password looks like.
func DecryptSecret(key []byte, ciphertext string) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.URLEncoding.DecodeString(ciphertext)
	if err != nil || len(raw) < aesgcm.NonceSize()+aesgcm.Overhead() {
		return "", common.ErrDecryption
	}

	nonce, sealed := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", common.ErrDecryption
	}
	return string(plaintext), nil
}

// Reencrypt moves ciphertext from oldKey to newKey.
func Reencrypt(oldKey, newKey []byte, ciphertext string) (string, error) {
	plaintext, err := DecryptSecret(oldKey, ciphertext)
	if err != nil {
		return "", err
	}
	return EncryptSecret(newKey, plaintext)
}
