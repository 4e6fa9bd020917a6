// Package session keeps the state of the single signed-in user and the
// guard checks run before account and vault actions.
package session

import (
	"sync"

	"github.com/dmitrijs2005/lightningpass/internal/common"
)

// Session is the in-process state of one signed-in user. The vault key
// lives here only while the vault is unlocked and is never persisted.
type Session struct {
	mu        sync.RWMutex
	userID    int64
	username  string
	hasMaster bool
	vaultKey  []byte
}

func New() *Session {
	return &Session{}
}

// SignIn records a successful login and drops any previous vault key.
func (s *Session) SignIn(userID int64, username string, hasMaster bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockLocked()
	s.userID = userID
	s.username = username
	s.hasMaster = hasMaster
}

// SignOut clears everything.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockLocked()
	s.userID = 0
	s.username = ""
	s.hasMaster = false
}

func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Session) SetUsername(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID != 0
}

func (s *Session) HasMasterPassword() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasMaster
}

// Unlock stores a copy of key and marks the master password as set.
func (s *Session) Unlock(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockLocked()
	s.vaultKey = append([]byte(nil), key...)
	s.hasMaster = true
}

// Lock wipes the vault key.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockLocked()
}

func (s *Session) lockLocked() {
	common.WipeByteArray(s.vaultKey)
	s.vaultKey = nil
}

func (s *Session) Unlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vaultKey != nil
}

// VaultKey returns a copy of the key, or nil while locked. Callers should
// wipe the copy when done.
func (s *Session) VaultKey() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vaultKey == nil {
		return nil
	}
	return append([]byte(nil), s.vaultKey...)
}
