package cli

import (
	"errors"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/passgen"
	"github.com/dmitrijs2005/lightningpass/internal/session"
	"github.com/dmitrijs2005/lightningpass/internal/validation"
)

// Describe turns an error from the core into the message shown to the user.
// A wrong master password surfaces either as ErrUnauthorized or as
// ErrDecryption; both read the same.
func Describe(err error) string {
	var vf *validation.Failure
	var denied *session.Denied

	switch {
	case err == nil:
		return ""
	case errors.As(err, &vf):
		return vf.Error()
	case errors.As(err, &denied):
		return denied.Error()
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrDecryption):
		return "The password you entered is incorrect."
	case errors.Is(err, common.ErrInvalidToken):
		return "This reset token is not valid."
	case errors.Is(err, common.ErrTokenExpired):
		return "This reset token has expired, please request a new one."
	case errors.Is(err, common.ErrMasterPasswordNotSet):
		return "You have not set up a master password yet."
	case errors.Is(err, common.ErrStoreTimeout):
		return "The database did not respond in time, please try again."
	case errors.Is(err, common.ErrStore):
		return "The database is unavailable, please try again."
	case errors.Is(err, common.ErrorNotFound):
		return "Nothing was found."
	case errors.Is(err, passgen.ErrNoCharacterSet):
		return "Select at least one character type."
	case errors.Is(err, passgen.ErrInvalidLength):
		return "Password " + passgen.ErrInvalidLength.Error() + "."
	case errors.Is(err, errNotEnoughEntropy):
		return "Not enough input was collected, please try again."
	case errors.Is(err, errUsage):
		return err.Error()
	}
	return "Unexpected error: " + err.Error()
}
