// Package passgen turns mouse-movement samples into printable passwords.
//
// Every accepted character is drawn from a pseudo-random generator seeded
// only by the sample coordinates, so the same sample sequence with the same
// Options always yields the same password.
package passgen

import (
	"errors"
	"fmt"
)

const (
	MinLength = 16
	MaxLength = 64

	Digits      = "0123456789"
	Lowercase   = "abcdefghijklmnopqrstuvwxyz"
	Uppercase   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

var (
	ErrNoCharacterSet = errors.New("no character class selected")
	ErrInvalidLength  = fmt.Errorf("length must be between %d and %d", MinLength, MaxLength)
)

// Options is the user's password policy.
type Options struct {
	Length    int
	Numbers   bool
	Symbols   bool
	Lowercase bool
	Uppercase bool
}

// Validate checks the length bounds and that at least one class is enabled.
func (o Options) Validate() error {
	if o.Length < MinLength || o.Length > MaxLength {
		return ErrInvalidLength
	}
	if !o.Numbers && !o.Symbols && !o.Lowercase && !o.Uppercase {
		return ErrNoCharacterSet
	}
	return nil
}

// Universe concatenates the enabled classes in the fixed order digits,
// lowercase, uppercase, punctuation.
func (o Options) Universe() string {
	var u string
	if o.Numbers {
		u += Digits
	}
	if o.Lowercase {
		u += Lowercase
	}
	if o.Uppercase {
		u += Uppercase
	}
	if o.Symbols {
		u += Punctuation
	}
	return u
}

// allows reports whether c belongs to an enabled class.
func (o Options) allows(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return o.Numbers
	case c >= 'a' && c <= 'z':
		return o.Lowercase
	case c >= 'A' && c <= 'Z':
		return o.Uppercase
	default:
		return o.Symbols
	}
}
