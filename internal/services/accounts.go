package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/lightningpass/internal/blobstore"
	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/config"
	"github.com/dmitrijs2005/lightningpass/internal/cryptox"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/mailer"
	"github.com/dmitrijs2005/lightningpass/internal/models"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/credentials"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lightningpass/internal/session"
	"github.com/dmitrijs2005/lightningpass/internal/validation"
)

// AccountService handles registration, login, account details, password
// changes and password reset.
type AccountService struct {
	base
	tokens *TokenService
	blobs  blobstore.Store
	mail   mailer.Sender
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger,
	tokens *TokenService, blobs blobstore.Store, mail mailer.Sender) *AccountService {
	return &AccountService{
		base:   newBase(db, m, cfg, logger),
		tokens: tokens,
		blobs:  blobs,
		mail:   mail,
	}
}

func (s *AccountService) users() credentials.Repository {
	return s.repomanager.Credentials(s.db)
}

func (s *AccountService) checker() *validation.Checker {
	return validation.NewChecker(s.users())
}

// Register validates the input, checks username and email are free and
// stores the account with a bcrypt password hash.
func (s *AccountService) Register(ctx context.Context, username, password, confirm, email string) (*models.Account, error) {
	if err := validation.Username(username); err != nil {
		return nil, err
	}
	if err := validation.NewPassword(password, confirm); err != nil {
		return nil, err
	}
	if err := validation.Email(email); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	var acc *models.Account
	err = s.run(ctx, func(ctx context.Context) error {
		c := s.checker()
		if err := c.Username(ctx, username, false); err != nil {
			return err
		}
		if err := c.Email(ctx, email, false); err != nil {
			return err
		}

		var err error
		acc, err = s.users().Create(ctx, &models.Account{
			Username:     username,
			PasswordHash: hash,
			Email:        validation.NormalizeEmail(email),
			RegisteredAt: s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", acc.ID)
	return acc, nil
}

// Login checks the username exists and the password matches, records the
// login time and signs sess in.
func (s *AccountService) Login(ctx context.Context, sess *session.Session, username, password string) (*models.Account, error) {
	var acc *models.Account
	err := s.run(ctx, func(ctx context.Context) error {
		if err := s.checker().Username(ctx, username, true); err != nil {
			return err
		}
		var err error
		acc, err = s.users().GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}

	ok, err := cryptox.CheckPassword(password, acc.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn(ctx, "login failed", "user_id", acc.ID)
		return nil, common.ErrUnauthorized
	}

	now := s.now()
	if err := s.run(ctx, func(ctx context.Context) error {
		return s.users().UpdateLastLogin(ctx, acc.ID, now)
	}); err != nil {
		return nil, err
	}
	acc.LastLogin = &now

	sess.SignIn(acc.ID, acc.Username, acc.HasMasterPassword())
	s.logger.Info(ctx, "user logged in", "user_id", acc.ID)
	return acc, nil
}

// Logout clears the session, including the vault key.
func (s *AccountService) Logout(ctx context.Context, sess *session.Session) {
	if id := sess.UserID(); id != 0 {
		s.logger.Info(ctx, "user logged out", "user_id", id)
	}
	sess.SignOut()
}

// Get loads the signed-in account.
func (s *AccountService) Get(ctx context.Context, sess *session.Session) (*models.Account, error) {
	if err := session.RequireLogin(sess).Err(); err != nil {
		return nil, err
	}
	var acc *models.Account
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		acc, err = s.users().GetByID(ctx, sess.UserID())
		return err
	})
	return acc, err
}

func (s *AccountService) ChangeUsername(ctx context.Context, sess *session.Session, username string) error {
	if err := session.RequireLogin(sess).Err(); err != nil {
		return err
	}
	if err := validation.Username(username); err != nil {
		return err
	}
	err := s.run(ctx, func(ctx context.Context) error {
		if err := s.checker().Username(ctx, username, false); err != nil {
			return err
		}
		return s.users().SetField(ctx, sess.UserID(), credentials.Username, username)
	})
	if err != nil {
		return err
	}
	sess.SetUsername(username)
	return nil
}

func (s *AccountService) ChangeEmail(ctx context.Context, sess *session.Session, email string) error {
	if err := session.RequireLogin(sess).Err(); err != nil {
		return err
	}
	if err := validation.Email(email); err != nil {
		return err
	}
	return s.run(ctx, func(ctx context.Context) error {
		if err := s.checker().Email(ctx, email, false); err != nil {
			return err
		}
		return s.users().SetField(ctx, sess.UserID(), credentials.Email, validation.NormalizeEmail(email))
	})
}

// EditDetails applies a new username and email, skipping empty and
// unchanged values, and returns the names of the fields that changed.
func (s *AccountService) EditDetails(ctx context.Context, sess *session.Session, username, email string) ([]string, error) {
	acc, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}

	var changed []string
	if username = strings.TrimSpace(username); username != "" && username != acc.Username {
		if err := s.ChangeUsername(ctx, sess, username); err != nil {
			return changed, err
		}
		changed = append(changed, "username")
	}
	if email = validation.NormalizeEmail(email); email != "" && email != acc.Email {
		if err := s.ChangeEmail(ctx, sess, email); err != nil {
			return changed, err
		}
		changed = append(changed, "email")
	}
	return changed, nil
}

// ChangePassword verifies current before storing the new password.
func (s *AccountService) ChangePassword(ctx context.Context, sess *session.Session, current, password, confirm string) error {
	acc, err := s.Get(ctx, sess)
	if err != nil {
		return err
	}
	ok, err := cryptox.CheckPassword(current, acc.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrUnauthorized
	}
	if err := s.setPassword(ctx, acc.ID, password, confirm); err != nil {
		return err
	}
	s.logger.Info(ctx, "password changed", "user_id", acc.ID)
	return nil
}

func (s *AccountService) setPassword(ctx context.Context, userID int64, password, confirm string) error {
	if err := validation.NewPassword(password, confirm); err != nil {
		return err
	}
	hash, err := cryptox.HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return err
	}
	return s.run(ctx, func(ctx context.Context) error {
		return s.users().SetField(ctx, userID, credentials.Password, hash)
	})
}

// ForgotPassword issues a reset token for the account registered under
// email and mails it. A delivery failure is returned.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	if err := validation.Email(email); err != nil {
		return err
	}
	email = validation.NormalizeEmail(email)

	var userID int64
	err := s.run(ctx, func(ctx context.Context) error {
		if err := s.checker().Email(ctx, email, true); err != nil {
			return err
		}
		var err error
		userID, err = s.users().FindUserID(ctx, credentials.Email, email)
		return err
	})
	if err != nil {
		return err
	}

	token, err := s.tokens.Create(ctx, userID)
	if err != nil {
		return err
	}
	if err := mailer.SendReset(ctx, s.mail, email, token); err != nil {
		s.logger.Error(ctx, "reset email not delivered", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// ResetPassword validates the new password, consumes token and stores the
// new hash for the token's owner.
func (s *AccountService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if err := validation.NewPassword(password, confirm); err != nil {
		return err
	}
	userID, err := s.tokens.Consume(ctx, strings.TrimSpace(token))
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, userID, password, confirm); err != nil {
		return err
	}
	s.logger.Info(ctx, "password reset", "user_id", userID)
	return nil
}

// SetProfilePicture copies srcPath into the blob store and records the
// stored name on the account.
func (s *AccountService) SetProfilePicture(ctx context.Context, sess *session.Session, srcPath string) (string, error) {
	if err := session.RequireLogin(sess).Err(); err != nil {
		return "", err
	}
	name, err := s.blobs.Save(ctx, srcPath)
	if err != nil {
		return "", fmt.Errorf("save picture: %w", err)
	}
	err = s.run(ctx, func(ctx context.Context) error {
		return s.users().SetField(ctx, sess.UserID(), credentials.ProfilePicture, name)
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// ProfilePicture opens the signed-in user's picture. Accounts still on the
// default picture yield common.ErrorNotFound unless the store holds one.
func (s *AccountService) ProfilePicture(ctx context.Context, sess *session.Session) (io.ReadCloser, error) {
	acc, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}
	rc, err := s.blobs.Open(ctx, acc.ProfilePicture)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("open picture: %w", err)
	}
	return rc, err
}
