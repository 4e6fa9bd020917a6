package validation

import (
	"crypto/subtle"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

const (
	minUsernameLength = 5
	minPasswordLength = 8
	// maxPasswordBytes is the longest input bcrypt accepts.
	maxPasswordBytes = 72
)

var emailRe = regexp.MustCompile(`^[a-z0-9]+[._]?[a-z0-9]+@\w+\.\w{2,3}$`)

// Username checks length and that every character is a letter or digit.
func Username(username string) error {
	if len([]rune(username)) < minUsernameLength {
		return fail(UsernameInvalid, "username")
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fail(UsernameInvalid, "username")
		}
	}
	return nil
}

// Password requires minimum length, an uppercase letter, a digit and a
// character outside [A-Za-z0-9], and at most 72 bytes.
func Password(password string) error {
	if len([]rune(password)) < minPasswordLength || len(password) > maxPasswordBytes {
		return fail(PasswordInvalid, "password")
	}

	var upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
		default:
			special = true
		}
	}
	if !upper || !digit || !special {
		return fail(PasswordInvalid, "password")
	}
	return nil
}

// NormalizeEmail lowercases and trims the address. All email checks and
// lookups use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email matches the normalized address against the accepted pattern.
func Email(email string) error {
	if !emailRe.MatchString(NormalizeEmail(email)) {
		return fail(EmailInvalid, "email")
	}
	return nil
}

// PasswordsMatch compares password and confirmation in constant time.
func PasswordsMatch(password, confirm string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(confirm)) != 1 {
		return fail(PasswordMismatch, "password")
	}
	return nil
}

// NewPassword runs the pattern check and then the confirmation check.
func NewPassword(password, confirm string) error {
	if err := Password(password); err != nil {
		return err
	}
	return PasswordsMatch(password, confirm)
}

// NormalizeURL defaults the scheme to http and checks the result parses as
// an absolute URL with a host.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fail(URLInvalid, "website")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	// "http:///example.com" from a prepend onto a leading slash
	s = strings.Replace(s, ":///", "://", 1)

	u, err := url.ParseRequestURI(s)
	if err != nil || u.Scheme == "" || u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return "", fail(URLInvalid, "website")
	}
	return u.String(), nil
}
