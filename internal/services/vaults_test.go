package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/cryptox"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/models"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/vaults"
	"github.com/dmitrijs2005/lightningpass/internal/session"
	"github.com/dmitrijs2005/lightningpass/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryFields(platform string) models.VaultFields {
	return models.VaultFields{
		PlatformName: platform,
		Website:      platform + ".com",
		Username:     "alice",
		Email:        "alice@" + platform + ".com",
		Password:     "secret-" + platform,
	}
}

// unlockedFixture is logged in with a master password set up.
func unlockedFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.registerAndLogin(t)
	require.NoError(t, f.vaults.SetupMasterPassword(context.Background(), f.sess, testPassword, testMaster, testMaster))
	return f
}

func TestVaultGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.vaults.AddEntry(ctx, f.sess, entryFields("github"))
	assert.ErrorIs(t, err, session.ErrLoginRequired)

	f.registerAndLogin(t)
	_, err = f.vaults.ListEntries(ctx, f.sess)
	assert.ErrorIs(t, err, session.ErrMasterPasswordRequired)
	assert.ErrorIs(t, f.vaults.Unlock(ctx, f.sess, testMaster), common.ErrMasterPasswordNotSet)
	_, err = f.vaults.CountEntries(ctx, f.sess)
	assert.ErrorIs(t, err, session.ErrMasterPasswordRequired)

	require.NoError(t, f.vaults.SetupMasterPassword(ctx, f.sess, testPassword, testMaster, testMaster))
	f.vaults.Lock(f.sess)
	assert.ErrorIs(t, f.vaults.RemoveEntry(ctx, f.sess, 1), session.ErrVaultUnlockRequired)
}

func TestSetupMasterPassword_Checks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerAndLogin(t)

	assert.ErrorIs(t, f.vaults.SetupMasterPassword(ctx, f.sess, "Wrong123+", testMaster, testMaster), common.ErrUnauthorized)
	assert.ErrorIs(t, f.vaults.SetupMasterPassword(ctx, f.sess, testPassword, "weak", "weak"), validation.ErrPasswordInvalid)
	assert.ErrorIs(t, f.vaults.SetupMasterPassword(ctx, f.sess, testPassword, testMaster, testMaster+"x"), validation.ErrPasswordMismatch)

	require.NoError(t, f.vaults.SetupMasterPassword(ctx, f.sess, testPassword, testMaster, testMaster))
	assert.True(t, f.sess.Unlocked())

	acc, err := f.accounts.Get(ctx, f.sess)
	require.NoError(t, err)
	assert.True(t, acc.VaultExists)
	require.True(t, acc.HasMasterPassword())

	f.vaults.Lock(f.sess)
	assert.ErrorIs(t, f.vaults.SetupMasterPassword(ctx, f.sess, testPassword, "Other123!", "Other123!"), session.ErrVaultUnlockRequired)
}

func TestUnlock(t *testing.T) {
	f := unlockedFixture(t)
	ctx := context.Background()
	f.vaults.Lock(f.sess)

	assert.ErrorIs(t, f.vaults.Unlock(ctx, f.sess, "Wrong123!"), common.ErrUnauthorized)
	assert.False(t, f.sess.Unlocked())

	require.NoError(t, f.vaults.Unlock(ctx, f.sess, testMaster))
	assert.True(t, f.sess.Unlocked())
}

func TestUnlock_AfterFreshLogin(t *testing.T) {
	f := unlockedFixture(t)
	ctx := context.Background()

	_, err := f.vaults.AddEntry(ctx, f.sess, entryFields("github"))
	require.NoError(t, err)

	sess := session.New()
	_, err = f.accounts.Login(ctx, sess, "alice1", testPassword)
	require.NoError(t, err)
	assert.True(t, sess.HasMasterPassword())
	assert.False(t, sess.Unlocked())

	require.NoError(t, f.vaults.Unlock(ctx, sess, testMaster))
	e, err := f.vaults.GetEntry(ctx, sess, 1)
	require.NoError(t, err)
	assert.Equal(t, "secret-github", e.Password)
}

func TestVaultEntryLifecycle(t *testing.T) {
	f := unlockedFixture(t)
	ctx := context.Background()

	e, err := f.vaults.AddEntry(ctx, f.sess, entryFields("github"))
	require.NoError(t, err)
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, "http://github.com", e.Website)
	assert.Equal(t, "secret-github", e.Password)

	for _, p := range []string{"gitlab", "bitbucket"} {
		_, err := f.vaults.AddEntry(ctx, f.sess, entryFields(p))
		require.NoError(t, err)
	}

	raw, err := vaults.NewSQLRepository(f.db, dbx.SQLite).Get(ctx, f.sess.UserID(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, "secret-github", raw.Password)

	upd := entryFields("github")
	upd.Username = "alice2"
	upd.Password = "rotated"
	changed, err := f.vaults.UpdateEntry(ctx, f.sess, 1, upd)
	require.NoError(t, err)
	assert.Equal(t, []string{"username", "password"}, changed)

	changed, err = f.vaults.UpdateEntry(ctx, f.sess, 1, upd)
	require.NoError(t, err)
	assert.Empty(t, changed)

	require.NoError(t, f.vaults.RemoveEntry(ctx, f.sess, 2))
	list, err := f.vaults.ListEntries(ctx, f.sess)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "github", list[0].PlatformName)
	assert.Equal(t, "rotated", list[0].Password)
	assert.Equal(t, "bitbucket", list[1].PlatformName)
	assert.Equal(t, 2, list[1].Index)

	f.vaults.Lock(f.sess)
	n, err := f.vaults.CountEntries(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, f.vaults.Unlock(ctx, f.sess, testMaster))

	assert.ErrorIs(t, f.vaults.RemoveEntry(ctx, f.sess, 5), common.ErrorNotFound)
	_, err = f.vaults.GetEntry(ctx, f.sess, 5)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSaveEntry_Upsert(t *testing.T) {
	f := unlockedFixture(t)
	ctx := context.Background()

	e, err := f.vaults.SaveEntry(ctx, f.sess, 1, entryFields("github"))
	require.NoError(t, err)
	assert.Equal(t, 1, e.Index)

	upd := entryFields("github")
	upd.Password = "rotated"
	e, err = f.vaults.SaveEntry(ctx, f.sess, 1, upd)
	require.NoError(t, err)
	assert.Equal(t, "rotated", e.Password)

	list, err := f.vaults.ListEntries(ctx, f.sess)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddEntry_Validation(t *testing.T) {
	f := unlockedFixture(t)
	ctx := context.Background()

	bad := entryFields("github")
	bad.Email = "not-an-email"
	_, err := f.vaults.AddEntry(ctx, f.sess, bad)
	assert.ErrorIs(t, err, validation.ErrEmailInvalid)

	bad = entryFields("github")
	bad.Username = " "
	_, err = f.vaults.AddEntry(ctx, f.sess, bad)
	assert.ErrorIs(t, err, validation.ErrVaultFieldEmpty)

	bad = entryFields("github")
	bad.Website = "http://exa mple.com"
	_, err = f.vaults.AddEntry(ctx, f.sess, bad)
	assert.ErrorIs(t, err, validation.ErrURLInvalid)
}

func TestChangeMasterPassword_ReencryptsVault(t *testing.T) {
	f := unlockedFixture(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := f.vaults.AddEntry(ctx, f.sess, entryFields(fmt.Sprintf("site%d", i)))
		require.NoError(t, err)
	}
	oldKey := f.sess.VaultKey()

	const m2 = "Second2@pw"
	require.NoError(t, f.vaults.SetupMasterPassword(ctx, f.sess, testPassword, m2, m2))
	newKey := f.sess.VaultKey()
	require.NotEqual(t, oldKey, newKey)

	raw, err := vaults.NewSQLRepository(f.db, dbx.SQLite).List(ctx, f.sess.UserID())
	require.NoError(t, err)
	require.Len(t, raw, 3)
	for i, e := range raw {
		pt, err := cryptox.DecryptSecret(newKey, e.Password)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("secret-site%d", i+1), pt)

		_, err = cryptox.DecryptSecret(oldKey, e.Password)
		assert.ErrorIs(t, err, common.ErrDecryption)
	}

	f.vaults.Lock(f.sess)
	assert.ErrorIs(t, f.vaults.Unlock(ctx, f.sess, testMaster), common.ErrUnauthorized)
	require.NoError(t, f.vaults.Unlock(ctx, f.sess, m2))
}

func TestChangeMasterPassword_RollsBackOnBadCiphertext(t *testing.T) {
	f := unlockedFixture(t)
	ctx := context.Background()

	for _, p := range []string{"a1", "b1"} {
		_, err := f.vaults.AddEntry(ctx, f.sess, entryFields(p))
		require.NoError(t, err)
	}
	repo := vaults.NewSQLRepository(f.db, dbx.SQLite)
	second, err := repo.Get(ctx, f.sess.UserID(), 2)
	require.NoError(t, err)
	require.NoError(t, repo.UpdatePassword(ctx, second.ID, "tampered"))

	before, err := f.accounts.Get(ctx, f.sess)
	require.NoError(t, err)
	first, err := repo.Get(ctx, f.sess.UserID(), 1)
	require.NoError(t, err)

	err = f.vaults.SetupMasterPassword(ctx, f.sess, testPassword, "Second2@pw", "Second2@pw")
	assert.ErrorIs(t, err, common.ErrDecryption)

	after, err := f.accounts.Get(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, before.Master, after.Master)

	firstAfter, err := repo.Get(ctx, f.sess.UserID(), 1)
	require.NoError(t, err)
	assert.Equal(t, first.Password, firstAfter.Password)
}

func TestListEntries_WrongKeyFailsClosed(t *testing.T) {
	f := unlockedFixture(t)
	ctx := context.Background()
	_, err := f.vaults.AddEntry(ctx, f.sess, entryFields("github"))
	require.NoError(t, err)

	f.sess.Unlock(make([]byte, cryptox.KeySize))
	_, err = f.vaults.ListEntries(ctx, f.sess)
	assert.ErrorIs(t, err, common.ErrDecryption)
}
