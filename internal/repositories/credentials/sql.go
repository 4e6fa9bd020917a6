package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/models"
)

// ErrUnknownField is returned for a column outside the Field whitelist.
var ErrUnknownField = errors.New("unknown credentials field")

const selectAccount = `SELECT id, username, password, email, profile_picture,
	last_login_date, register_date, vault_existence, master_password, vault_salt
	FROM credentials`

// SQLRepository implements Repository over a DBTX for either dialect.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) q(query string) string {
	return r.dialect.Rebind(query)
}

func (r *SQLRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	query := `INSERT INTO credentials (username, password, email, profile_picture, register_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`

	if a.ProfilePicture == "" {
		a.ProfilePicture = models.DefaultProfilePicture
	}

	err := r.db.QueryRowContext(ctx, r.q(query),
		a.Username, a.PasswordHash, a.Email, a.ProfilePicture, a.RegisteredAt).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a          models.Account
		lastLogin  sql.NullTime
		masterHash sql.NullString
		salt       sql.NullString
	)
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.ProfilePicture,
		&lastLogin, &a.RegisteredAt, &a.VaultExists, &masterHash, &salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLogin = &t
	}
	if masterHash.Valid && salt.Valid {
		a.Master = &models.MasterCredentials{Hash: masterHash.String, Salt: salt.String}
	}
	return &a, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, r.q(selectAccount+` WHERE id = ?`), id))
}

func (r *SQLRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, r.q(selectAccount+` WHERE username = ?`), username))
}

func (r *SQLRepository) GetField(ctx context.Context, id int64, field Field) (string, error) {
	if !field.valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	var v string
	err := r.db.QueryRowContext(ctx, r.q(`SELECT `+string(field)+` FROM credentials WHERE id = ?`), id).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.q(query), args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) SetField(ctx context.Context, id int64, field Field, value string) error {
	if !field.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return r.exec(ctx, `UPDATE credentials SET `+string(field)+` = ? WHERE id = ?`, value, id)
}

func (r *SQLRepository) FindUserID(ctx context.Context, field Field, value string) (int64, error) {
	if field != Username && field != Email {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	var id int64
	err := r.db.QueryRowContext(ctx, r.q(`SELECT id FROM credentials WHERE `+string(field)+` = ?`), value).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// Exists reports whether any account has value in column. Only the unique
// columns username and email are accepted.
func (r *SQLRepository) Exists(ctx context.Context, column, value string) (bool, error) {
	f := Field(column)
	if f != Username && f != Email {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, column)
	}

	var found bool
	err := r.db.QueryRowContext(ctx,
		r.q(`SELECT EXISTS (SELECT 1 FROM credentials WHERE `+column+` = ?)`), value).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

// SetMasterCredentials writes hash and salt together and marks the vault
// as existing.
func (r *SQLRepository) SetMasterCredentials(ctx context.Context, id int64, m models.MasterCredentials) error {
	return r.exec(ctx,
		`UPDATE credentials SET master_password = ?, vault_salt = ?, vault_existence = ? WHERE id = ?`,
		m.Hash, m.Salt, true, id)
}

func (r *SQLRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.exec(ctx, `UPDATE credentials SET last_login_date = ? WHERE id = ?`, at, id)
}
