package session

import "fmt"

// Reason says why a guard denied an action.
type Reason int

const (
	LoginRequired Reason = iota + 1
	MasterPasswordRequired
	VaultUnlockRequired
)

func (r Reason) String() string {
	switch r {
	case LoginRequired:
		return "You must be logged in to do that."
	case MasterPasswordRequired:
		return "You must set up a master password first."
	case VaultUnlockRequired:
		return "You must unlock your vault first."
	}
	return fmt.Sprintf("denied (%d)", int(r))
}

// Denied is the error form of a refused guard.
type Denied struct {
	Reason Reason
}

func (d *Denied) Error() string {
	return d.Reason.String()
}

func (d *Denied) Is(target error) bool {
	t, ok := target.(*Denied)
	return ok && t.Reason == d.Reason
}

var (
	ErrLoginRequired          = &Denied{Reason: LoginRequired}
	ErrMasterPasswordRequired = &Denied{Reason: MasterPasswordRequired}
	ErrVaultUnlockRequired    = &Denied{Reason: VaultUnlockRequired}
)

// Decision is the result of a guard: Authorized, or denied with a reason.
type Decision struct {
	Authorized bool
	Reason     Reason
}

// Err returns nil for an authorized decision and *Denied otherwise.
func (d Decision) Err() error {
	if d.Authorized {
		return nil
	}
	return &Denied{Reason: d.Reason}
}

func allow() Decision        { return Decision{Authorized: true} }
func deny(r Reason) Decision { return Decision{Reason: r} }

func RequireLogin(s *Session) Decision {
	if s == nil || !s.LoggedIn() {
		return deny(LoginRequired)
	}
	return allow()
}

func RequireMasterPassword(s *Session) Decision {
	if d := RequireLogin(s); !d.Authorized {
		return d
	}
	if !s.HasMasterPassword() {
		return deny(MasterPasswordRequired)
	}
	return allow()
}

func RequireVaultUnlocked(s *Session) Decision {
	if d := RequireMasterPassword(s); !d.Authorized {
		return d
	}
	if !s.Unlocked() {
		return deny(VaultUnlockRequired)
	}
	return allow()
}
