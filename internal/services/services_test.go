package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lightningpass/internal/blobstore"
	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/config"
	"github.com/dmitrijs2005/lightningpass/internal/cryptox"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lightningpass/internal/session"
	"github.com/dmitrijs2005/lightningpass/internal/testutil/sqlitetest"
	"github.com/dmitrijs2005/lightningpass/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testPassword = "Pass123+"
	testMaster   = "Master9!x"
)

type fakeMailer struct {
	to, body string
	err      error
}

func (f *fakeMailer) Send(_ context.Context, to, _, body string) error {
	f.to, f.body = to, body
	return f.err
}

type fixture struct {
	db       *sql.DB
	accounts *AccountService
	tokens   *TokenService
	vaults   *VaultService
	mail     *fakeMailer
	sess     *session.Session
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.KDFIterations = cryptox.MinIterations
	return cfg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := sqlitetest.Open(t)
	rm := repomanager.NewSQLRepositoryManager("sqlite")
	cfg := testConfig()
	log := logging.NewNop()

	blobs, err := blobstore.NewFSStore(t.TempDir())
	require.NoError(t, err)

	mail := &fakeMailer{}
	tokens := NewTokenService(db, rm, cfg, log)
	return &fixture{
		db:       db,
		accounts: NewAccountService(db, rm, cfg, log, tokens, blobs, mail),
		tokens:   tokens,
		vaults:   NewVaultService(db, rm, cfg, log),
		mail:     mail,
		sess:     session.New(),
	}
}

// registerAndLogin creates alice1 and signs the fixture session in.
func (f *fixture) registerAndLogin(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.accounts.Register(ctx, "alice1", testPassword, testPassword, "alice@example.com")
	require.NoError(t, err)
	_, err = f.accounts.Login(ctx, f.sess, "alice1", testPassword)
	require.NoError(t, err)
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, isDomainError(validation.ErrEmailTaken))
	assert.True(t, isDomainError(session.ErrLoginRequired))
	assert.True(t, isDomainError(common.ErrDecryption))
	assert.False(t, isDomainError(common.ErrorNotFound))
	assert.False(t, isDomainError(errors.New("driver")))
	assert.False(t, isDomainError(nil))
}

func TestStoreTimeoutIsDistinct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.StoreTimeout = 20 * time.Millisecond
	s := NewAccountService(db, repomanager.NewSQLRepositoryManager("sqlite"), cfg, logging.NewNop(), nil, nil, nil)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = s.Register(context.Background(), "alice1", testPassword, testPassword, "alice@example.com")
	assert.ErrorIs(t, err, common.ErrStoreTimeout)
	assert.NotErrorIs(t, err, common.ErrStore)
}

func TestStoreFailureIsClassified(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewAccountService(db, repomanager.NewSQLRepositoryManager("sqlite"), testConfig(), logging.NewNop(), nil, nil, nil)
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("connection refused"))

	_, err = s.Login(context.Background(), session.New(), "alice1", testPassword)
	assert.ErrorIs(t, err, common.ErrStore)
}
