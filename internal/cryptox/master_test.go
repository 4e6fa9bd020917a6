package cryptox

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("fixed-salt-value")

	k1, err := DeriveKey("secret-password", salt, MinIterations)
	require.NoError(t, err)
	k2, err := DeriveKey("secret-password", salt, MinIterations)
	require.NoError(t, err)

	assert.Len(t, k1, KeySize)
	assert.True(t, bytes.Equal(k1, k2))

	k3, err := DeriveKey("secret-password", []byte("other-salt-value"), MinIterations)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(k1, k3))
}

func TestDeriveKey_IterationFloor(t *testing.T) {
	salt := []byte("fixed-salt-value")
	low, err := DeriveKey("pw", salt, 10)
	require.NoError(t, err)
	floor, err := DeriveKey("pw", salt, MinIterations)
	require.NoError(t, err)
	assert.Equal(t, floor, low)
}

func TestDeriveKey_EmptySalt(t *testing.T) {
	_, err := DeriveKey("pw", nil, MinIterations)
	assert.ErrorIs(t, err, common.ErrMissingKeyMaterial)
}

func TestMasterPassword_RoundTrip(t *testing.T) {
	creds, key, err := HashMasterPassword("Master1!", bcrypt.MinCost, MinIterations)
	require.NoError(t, err)
	require.Len(t, key, KeySize)

	salt, err := base64.URLEncoding.DecodeString(creds.Salt)
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize)
	assert.NotContains(t, creds.Hash, "Master1!")

	got, ok, err := AuthenticateMasterPassword("Master1!", creds, MinIterations)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key, got)

	got, ok, err = AuthenticateMasterPassword("Master2!", creds, MinIterations)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestMasterPassword_VerifierIsOverDerivedKey(t *testing.T) {
	creds, key, err := HashMasterPassword("Master1!", bcrypt.MinCost, MinIterations)
	require.NoError(t, err)

	// the raw password must not verify against the stored hash
	ok, err := CheckPassword("Master1!", creds.Hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = CheckPassword(base64.URLEncoding.EncodeToString(key), creds.Hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthenticateMasterPassword_BadSalt(t *testing.T) {
	_, ok, err := AuthenticateMasterPassword("Master1!", models.MasterCredentials{Hash: "x", Salt: "%%%"}, MinIterations)
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrMissingKeyMaterial)
}
