package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/models"
)

const selectEntry = `SELECT id, user_id, platform_name, website, username, email, password, vault_index
	FROM vaults`

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

func (r *SQLRepository) Create(ctx context.Context, e *models.VaultEntry) (*models.VaultEntry, error) {
	query := `INSERT INTO vaults (user_id, platform_name, website, username, email, password, vault_index)
		VALUES (?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(vault_index), 0) + 1 FROM vaults WHERE user_id = ?))
		RETURNING id, vault_index`

	err := r.db.QueryRowContext(ctx, r.q(query),
		e.UserID, e.PlatformName, e.Website, e.Username, e.Email, e.Password, e.UserID).
		Scan(&e.ID, &e.Index)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.q(query), args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) Update(ctx context.Context, e *models.VaultEntry) error {
	n, err := r.exec(ctx, `UPDATE vaults
		SET platform_name = ?, website = ?, username = ?, email = ?, password = ?
		WHERE user_id = ? AND vault_index = ?`,
		e.PlatformName, e.Website, e.Username, e.Email, e.Password, e.UserID, e.Index)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, id int64, ciphertext string) error {
	n, err := r.exec(ctx, `UPDATE vaults SET password = ? WHERE id = ?`, ciphertext, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, userID int64, index int) error {
	n, err := r.exec(ctx, `DELETE FROM vaults WHERE user_id = ? AND vault_index = ?`, userID, index)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	_, err = r.exec(ctx, `UPDATE vaults SET vault_index = vault_index - 1
		WHERE user_id = ? AND vault_index > ?`, userID, index)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.VaultEntry, error) {
	e := &models.VaultEntry{}
	err := s.Scan(&e.ID, &e.UserID, &e.PlatformName, &e.Website, &e.Username, &e.Email, &e.Password, &e.Index)
	return e, err
}

func (r *SQLRepository) Get(ctx context.Context, userID int64, index int) (*models.VaultEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx,
		r.q(selectEntry+` WHERE user_id = ? AND vault_index = ?`), userID, index))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) List(ctx context.Context, userID int64) ([]*models.VaultEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.q(selectEntry+` WHERE user_id = ? ORDER BY vault_index`), userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []*models.VaultEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entries, nil
}

func (r *SQLRepository) Exists(ctx context.Context, userID int64, index int) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx,
		r.q(`SELECT EXISTS (SELECT 1 FROM vaults WHERE user_id = ? AND vault_index = ?)`), userID, index).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

func (r *SQLRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.q(`SELECT COUNT(*) FROM vaults WHERE user_id = ?`), userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
