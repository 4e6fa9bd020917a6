// Package validation holds the pattern and uniqueness checks applied to
// account and vault input before anything reaches the store.
package validation

import "fmt"

// Kind names one validation failure. Every kind carries its own message.
type Kind int

const (
	UsernameInvalid Kind = iota + 1
	UsernameTaken
	PasswordInvalid
	PasswordMismatch
	EmailInvalid
	EmailTaken
	URLInvalid
	AccountNotFound
	VaultFieldEmpty
)

var messages = map[Kind]string{
	UsernameInvalid:  "Username must be at least 5 characters long and contain only letters and digits.",
	UsernameTaken:    "This username is already registered.",
	PasswordInvalid:  "Password must be 8 to 72 characters long and contain an uppercase letter, a digit and a special character.",
	PasswordMismatch: "Passwords do not match.",
	EmailInvalid:     "This email address is not valid.",
	EmailTaken:       "This email address is already registered.",
	URLInvalid:       "This website address is not valid.",
	AccountNotFound:  "No account matches the given details.",
	VaultFieldEmpty:  "Every vault field must be filled in.",
}

func (k Kind) String() string {
	if m, ok := messages[k]; ok {
		return m
	}
	return fmt.Sprintf("validation failure %d", int(k))
}

// Failure is returned by every check in this package.
type Failure struct {
	Kind  Kind
	Field string
}

func (f *Failure) Error() string {
	return f.Kind.String()
}

// Is matches another *Failure of the same kind, so callers can write
// errors.Is(err, validation.ErrEmailTaken).
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Kind == f.Kind
}

func fail(k Kind, field string) error {
	return &Failure{Kind: k, Field: field}
}

// Comparable sentinels for errors.Is.
var (
	ErrUsernameInvalid  = &Failure{Kind: UsernameInvalid}
	ErrUsernameTaken    = &Failure{Kind: UsernameTaken}
	ErrPasswordInvalid  = &Failure{Kind: PasswordInvalid}
	ErrPasswordMismatch = &Failure{Kind: PasswordMismatch}
	ErrEmailInvalid     = &Failure{Kind: EmailInvalid}
	ErrEmailTaken       = &Failure{Kind: EmailTaken}
	ErrURLInvalid       = &Failure{Kind: URLInvalid}
	ErrAccountNotFound  = &Failure{Kind: AccountNotFound}
	ErrVaultFieldEmpty  = &Failure{Kind: VaultFieldEmpty}
)
