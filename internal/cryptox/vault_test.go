package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecret_RoundTrip(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)

	for _, pt := range []string{"", "hunter2", "пароль с юникодом", string(make([]byte, 4096))} {
		ct, err := EncryptSecret(key, pt)
		require.NoError(t, err)
		assert.NotEqual(t, pt, ct)

		got, err := DecryptSecret(key, ct)
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
}

func TestSecret_FreshNonce(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	a, err := EncryptSecret(key, "same")
	require.NoError(t, err)
	b, err := EncryptSecret(key, "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptSecret_WrongKey(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	other := common.GenerateRandByteArray(KeySize)

	ct, err := EncryptSecret(key, "hunter2")
	require.NoError(t, err)

	got, err := DecryptSecret(other, ct)
	assert.ErrorIs(t, err, common.ErrDecryption)
	assert.Empty(t, got)
}

func TestDecryptSecret_Tampered(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	ct, err := EncryptSecret(key, "hunter2")
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(ct)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01

	_, err = DecryptSecret(key, base64.URLEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, common.ErrDecryption)

	_, err = DecryptSecret(key, "not base64 !!")
	assert.ErrorIs(t, err, common.ErrDecryption)

	_, err = DecryptSecret(key, base64.URLEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, common.ErrDecryption)
}

func TestSecret_BadKeyLength(t *testing.T) {
	_, err := EncryptSecret([]byte("short"), "x")
	assert.ErrorIs(t, err, common.ErrMissingKeyMaterial)
	_, err = DecryptSecret(nil, "x")
	assert.ErrorIs(t, err, common.ErrMissingKeyMaterial)
}

func TestReencrypt(t *testing.T) {
	k1 := common.GenerateRandByteArray(KeySize)
	k2 := common.GenerateRandByteArray(KeySize)

	ct, err := EncryptSecret(k1, "hunter2")
	require.NoError(t, err)

	moved, err := Reencrypt(k1, k2, ct)
	require.NoError(t, err)

	got, err := DecryptSecret(k2, moved)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	_, err = DecryptSecret(k1, moved)
	assert.ErrorIs(t, err, common.ErrDecryption)

	_, err = Reencrypt(k2, k1, ct)
	assert.ErrorIs(t, err, common.ErrDecryption)
}
