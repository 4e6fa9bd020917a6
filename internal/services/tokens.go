package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/config"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/repomanager"
)

// tokenEntropyBytes of random hex precede the user id in a reset token.
const tokenEntropyBytes = 15

// TokenService issues and consumes single-use password reset tokens.
type TokenService struct {
	base
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *TokenService {
	return &TokenService{base: newBase(db, m, cfg, logger)}
}

// Create sweeps expired tokens, drops any token userID still holds and
// stores a fresh one, all in one transaction.
func (s *TokenService) Create(ctx context.Context, userID int64) (string, error) {
	random, err := common.MakeRandHexString(tokenEntropyBytes)
	if err != nil {
		return "", fmt.Errorf("token entropy: %w", err)
	}
	token := random + strconv.FormatInt(userID, 10)
	now := s.now()

	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tokens(tx)
		if _, err := repo.DeleteCreatedBefore(ctx, now.Add(-s.config.TokenTTL)); err != nil {
			return err
		}
		if err := repo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return repo.Insert(ctx, userID, token, now)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "reset token issued", "user_id", userID)
	return token, nil
}

// Consume deletes token and returns the user it belongs to. An unknown
// token yields common.ErrInvalidToken; a token past its TTL is deleted and
// yields common.ErrTokenExpired.
func (s *TokenService) Consume(ctx context.Context, token string) (int64, error) {
	if len(token) <= tokenEntropyBytes*2 {
		return 0, common.ErrInvalidToken
	}

	var (
		userID  int64
		expired bool
	)
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tokens(tx)
		t, err := repo.Find(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}
		if err := repo.Delete(ctx, token); err != nil {
			return err
		}
		userID = t.UserID
		expired = t.Expired(s.now(), s.config.TokenTTL)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if expired {
		return 0, common.ErrTokenExpired
	}
	if token[tokenEntropyBytes*2:] != strconv.FormatInt(userID, 10) {
		return 0, common.ErrInvalidToken
	}

	s.logger.Info(ctx, "reset token consumed", "user_id", userID)
	return userID, nil
}

// Sweep removes every token older than the TTL.
func (s *TokenService) Sweep(ctx context.Context) (int64, error) {
	var n int64
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.repomanager.Tokens(s.db).DeleteCreatedBefore(ctx, s.now().Add(-s.config.TokenTTL))
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug(ctx, "expired reset tokens removed", "count", n)
	}
	return n, nil
}
