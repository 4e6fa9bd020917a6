package credentials

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/models"
	"github.com/dmitrijs2005/lightningpass/internal/testutil/sqlitetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLRepository {
	t.Helper()
	return NewSQLRepository(sqlitetest.Open(t), dbx.SQLite)
}

func createAccount(t *testing.T, r *SQLRepository, username, email string) *models.Account {
	t.Helper()
	a, err := r.Create(context.Background(), &models.Account{
		Username:     username,
		PasswordHash: "hash-" + username,
		Email:        email,
		RegisteredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return a
}

func TestCreateAndGet(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	a := createAccount(t, r, "alice1", "alice@example.com")
	require.NotZero(t, a.ID)

	got, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice1", got.Username)
	assert.Equal(t, "hash-alice1", got.PasswordHash)
	assert.Equal(t, models.DefaultProfilePicture, got.ProfilePicture)
	assert.Nil(t, got.LastLogin)
	assert.False(t, got.VaultExists)
	assert.False(t, got.HasMasterPassword())
	assert.True(t, got.RegisteredAt.Equal(a.RegisteredAt))

	byName, err := r.GetByUsername(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byName.ID)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	r := newSQLiteRepo(t)
	createAccount(t, r, "alice1", "alice@example.com")

	_, err := r.Create(context.Background(), &models.Account{
		Username: "alice1", PasswordHash: "h", Email: "other@example.com", RegisteredAt: time.Now().UTC(),
	})
	assert.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := r.GetByID(ctx, 42)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.GetField(ctx, 42, Email)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.FindUserID(ctx, Email, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, r.SetField(ctx, 42, Email, "x@example.com"), common.ErrorNotFound)
}

func TestFieldsRoundTrip(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	a := createAccount(t, r, "alice1", "alice@example.com")

	require.NoError(t, r.SetField(ctx, a.ID, ProfilePicture, "abc.png"))
	v, err := r.GetField(ctx, a.ID, ProfilePicture)
	require.NoError(t, err)
	assert.Equal(t, "abc.png", v)

	id, err := r.FindUserID(ctx, Email, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)
}

func TestUnknownFieldRejected(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := r.GetField(ctx, 1, Field("password; DROP TABLE credentials"))
	assert.ErrorIs(t, err, ErrUnknownField)

	assert.ErrorIs(t, r.SetField(ctx, 1, Field("vault_existence"), "1"), ErrUnknownField)

	_, err = r.FindUserID(ctx, Password, "x")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = r.Exists(ctx, "profile_picture", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestExists(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	createAccount(t, r, "alice1", "alice@example.com")

	found, err := r.Exists(ctx, "username", "alice1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = r.Exists(ctx, "email", "bob@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetMasterCredentialsAndLastLogin(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()
	a := createAccount(t, r, "alice1", "alice@example.com")

	require.NoError(t, r.SetMasterCredentials(ctx, a.ID, models.MasterCredentials{Hash: "mh", Salt: "ms"}))
	at := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, r.UpdateLastLogin(ctx, a.ID, at))

	got, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.HasMasterPassword())
	assert.Equal(t, "mh", got.Master.Hash)
	assert.Equal(t, "ms", got.Master.Salt)
	assert.True(t, got.VaultExists)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(at))
}

func TestPostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLRepository(db, dbx.Postgres)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE credentials SET email = $1 WHERE id = $2`)).
		WithArgs("new@example.com", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.SetField(context.Background(), 7, Email, "new@example.com"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBErrorsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLRepository(db, dbx.Postgres)
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("db down"))

	_, err = r.Exists(context.Background(), "username", "alice1")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}
