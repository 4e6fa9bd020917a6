package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/config"
	"github.com/dmitrijs2005/lightningpass/internal/cryptox"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/models"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lightningpass/internal/session"
	"github.com/dmitrijs2005/lightningpass/internal/validation"
)

// VaultService manages the master password and the encrypted vault
// entries of the signed-in user. Entry passwords are stored as AES-GCM
// ciphertext under the key derived from the master password.
type VaultService struct {
	base
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *VaultService {
	return &VaultService{base: newBase(db, m, cfg, logger)}
}

func (s *VaultService) account(ctx context.Context, userID int64) (*models.Account, error) {
	var acc *models.Account
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		acc, err = s.repomanager.Credentials(s.db).GetByID(ctx, userID)
		return err
	})
	return acc, err
}

// SetupMasterPassword sets or replaces the master password. The login
// password is verified first. Replacing an existing master password needs
// an unlocked vault; every stored entry is then moved from the old key to
// the new one in the same transaction that stores the new verifier, so the
// vault never mixes keys. On success the vault is unlocked with the new key.
func (s *VaultService) SetupMasterPassword(ctx context.Context, sess *session.Session, loginPassword, master, confirm string) error {
	if err := session.RequireLogin(sess).Err(); err != nil {
		return err
	}
	acc, err := s.account(ctx, sess.UserID())
	if err != nil {
		return err
	}

	ok, err := cryptox.CheckPassword(loginPassword, acc.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrUnauthorized
	}
	if err := validation.NewPassword(master, confirm); err != nil {
		return err
	}

	var oldKey []byte
	if acc.HasMasterPassword() {
		if err := session.RequireVaultUnlocked(sess).Err(); err != nil {
			return err
		}
		oldKey = sess.VaultKey()
		defer common.WipeByteArray(oldKey)
	}

	creds, newKey, err := cryptox.HashMasterPassword(master, s.config.BcryptCost, s.config.KDFIterations)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newKey)

	migrated := 0
	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Credentials(tx).SetMasterCredentials(ctx, acc.ID, creds); err != nil {
			return err
		}
		if oldKey == nil {
			return nil
		}

		repo := s.repomanager.Vaults(tx)
		entries, err := repo.List(ctx, acc.ID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			ct, err := cryptox.Reencrypt(oldKey, newKey, e.Password)
			if err != nil {
				return err
			}
			if err := repo.UpdatePassword(ctx, e.ID, ct); err != nil {
				return err
			}
		}
		migrated = len(entries)
		return nil
	})
	if err != nil {
		return err
	}

	sess.Unlock(newKey)
	s.logger.Info(ctx, "master password set", "user_id", acc.ID, "reencrypted", migrated)
	return nil
}

// Unlock verifies master and keeps the derived key in sess.
func (s *VaultService) Unlock(ctx context.Context, sess *session.Session, master string) error {
	if err := session.RequireLogin(sess).Err(); err != nil {
		return err
	}
	acc, err := s.account(ctx, sess.UserID())
	if err != nil {
		return err
	}
	if !acc.HasMasterPassword() {
		return common.ErrMasterPasswordNotSet
	}

	key, ok, err := cryptox.AuthenticateMasterPassword(master, *acc.Master, s.config.KDFIterations)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn(ctx, "vault unlock failed", "user_id", acc.ID)
		return common.ErrUnauthorized
	}
	defer common.WipeByteArray(key)

	sess.Unlock(key)
	s.logger.Info(ctx, "vault unlocked", "user_id", acc.ID)
	return nil
}

// Lock forgets the vault key.
func (s *VaultService) Lock(sess *session.Session) {
	sess.Lock()
}

// unlockedKey runs the vault guard and returns a copy of the key.
func unlockedKey(sess *session.Session) ([]byte, error) {
	if err := session.RequireVaultUnlocked(sess).Err(); err != nil {
		return nil, err
	}
	return sess.VaultKey(), nil
}

// AddEntry validates fields and stores them at the next index.
func (s *VaultService) AddEntry(ctx context.Context, sess *session.Session, fields models.VaultFields) (*models.VaultEntry, error) {
	key, err := unlockedKey(sess)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	fields, err = validation.VaultFields(fields)
	if err != nil {
		return nil, err
	}
	ct, err := cryptox.EncryptSecret(key, fields.Password)
	if err != nil {
		return nil, err
	}

	e := newEntry(sess.UserID(), fields)
	e.Password = ct
	err = s.run(ctx, func(ctx context.Context) error {
		_, err := s.repomanager.Vaults(s.db).Create(ctx, e)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.Password = fields.Password
	s.logger.Info(ctx, "vault entry added", "user_id", e.UserID, "vault_index", e.Index)
	return e, nil
}

// UpdateEntry rewrites the entry at index and returns the names of the
// fields whose values changed.
func (s *VaultService) UpdateEntry(ctx context.Context, sess *session.Session, index int, fields models.VaultFields) ([]string, error) {
	current, err := s.GetEntry(ctx, sess, index)
	if err != nil {
		return nil, err
	}
	key, err := unlockedKey(sess)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	fields, err = validation.VaultFields(fields)
	if err != nil {
		return nil, err
	}
	changed := changedFields(current, fields)
	if len(changed) == 0 {
		return nil, nil
	}

	ct, err := cryptox.EncryptSecret(key, fields.Password)
	if err != nil {
		return nil, err
	}
	e := newEntry(sess.UserID(), fields)
	e.ID, e.Index, e.Password = current.ID, index, ct

	err = s.run(ctx, func(ctx context.Context) error {
		return s.repomanager.Vaults(s.db).Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "vault entry updated", "user_id", e.UserID, "vault_index", index)
	return changed, nil
}

// SaveEntry updates the entry at index when it exists and adds a new one
// otherwise.
func (s *VaultService) SaveEntry(ctx context.Context, sess *session.Session, index int, fields models.VaultFields) (*models.VaultEntry, error) {
	if err := session.RequireVaultUnlocked(sess).Err(); err != nil {
		return nil, err
	}
	var exists bool
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		exists, err = s.repomanager.Vaults(s.db).Exists(ctx, sess.UserID(), index)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !exists {
		return s.AddEntry(ctx, sess, fields)
	}
	if _, err := s.UpdateEntry(ctx, sess, index, fields); err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, sess, index)
}

// RemoveEntry deletes the entry at index. Later entries move down by one
// so indices stay 1..N.
func (s *VaultService) RemoveEntry(ctx context.Context, sess *session.Session, index int) error {
	if err := session.RequireVaultUnlocked(sess).Err(); err != nil {
		return err
	}
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Vaults(tx).Delete(ctx, sess.UserID(), index)
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "vault entry removed", "user_id", sess.UserID(), "vault_index", index)
	return nil
}

// GetEntry returns the entry at index with its password decrypted.
func (s *VaultService) GetEntry(ctx context.Context, sess *session.Session, index int) (*models.VaultEntry, error) {
	key, err := unlockedKey(sess)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	var e *models.VaultEntry
	err = s.run(ctx, func(ctx context.Context) error {
		var err error
		e, err = s.repomanager.Vaults(s.db).Get(ctx, sess.UserID(), index)
		return err
	})
	if err != nil {
		return nil, err
	}
	if e.Password, err = cryptox.DecryptSecret(key, e.Password); err != nil {
		return nil, err
	}
	return e, nil
}

// CountEntries returns the number of stored entries. The vault does not need
// to be unlocked.
func (s *VaultService) CountEntries(ctx context.Context, sess *session.Session) (int, error) {
	if err := session.RequireMasterPassword(sess).Err(); err != nil {
		return 0, err
	}
	var n int
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.repomanager.Vaults(s.db).Count(ctx, sess.UserID())
		return err
	})
	return n, err
}

// ListEntries returns every entry in index order, decrypted.
func (s *VaultService) ListEntries(ctx context.Context, sess *session.Session) ([]*models.VaultEntry, error) {
	key, err := unlockedKey(sess)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	var entries []*models.VaultEntry
	err = s.run(ctx, func(ctx context.Context) error {
		var err error
		entries, err = s.repomanager.Vaults(s.db).List(ctx, sess.UserID())
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Password, err = cryptox.DecryptSecret(key, e.Password); err != nil {
			if errors.Is(err, common.ErrDecryption) {
				s.logger.Warn(ctx, "vault entry does not decrypt", "user_id", e.UserID, "vault_index", e.Index)
			}
			return nil, err
		}
	}
	return entries, nil
}

func newEntry(userID int64, f models.VaultFields) *models.VaultEntry {
	return &models.VaultEntry{
		UserID:       userID,
		PlatformName: f.PlatformName,
		Website:      f.Website,
		Username:     f.Username,
		Email:        f.Email,
		Password:     f.Password,
	}
}

func changedFields(e *models.VaultEntry, f models.VaultFields) []string {
	var changed []string
	pairs := []struct {
		name     string
		old, new string
	}{
		{"platform_name", e.PlatformName, f.PlatformName},
		{"website", e.Website, f.Website},
		{"username", e.Username, f.Username},
		{"email", e.Email, f.Email},
		{"password", e.Password, f.Password},
	}
	for _, p := range pairs {
		if p.old != p.new {
			changed = append(changed, p.name)
		}
	}
	return changed
}
