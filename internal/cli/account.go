package cli

import (
	"context"
	"strconv"
	"strings"
	"time"
)

func (a *App) Register(ctx context.Context, _ []string) error {
	username, err := a.text("Enter username")
	if err != nil {
		return err
	}
	email, err := a.text("Enter email")
	if err != nil {
		return err
	}
	password, err := a.secret("Enter password")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Confirm password")
	if err != nil {
		return err
	}

	if _, err := a.accounts.Register(ctx, username, password, confirm, email); err != nil {
		return err
	}
	a.println("Account created, you can log in now.")
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	username, err := a.text("Enter username")
	if err != nil {
		return err
	}
	password, err := a.secret("Enter password")
	if err != nil {
		return err
	}

	acc, err := a.accounts.Login(ctx, a.sess, username, password)
	if err != nil {
		return err
	}
	a.println("Welcome, " + acc.Username + "!")
	if !acc.HasMasterPassword() {
		a.println("Set up a master password with 'master' to start using your vault.")
	}
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.accounts.Logout(ctx, a.sess)
	a.println("Logged out.")
	return nil
}

func (a *App) Forgot(ctx context.Context, _ []string) error {
	email, err := a.text("Enter the email of your account")
	if err != nil {
		return err
	}
	if err := a.accounts.ForgotPassword(ctx, email); err != nil {
		return err
	}
	a.println("A reset token was sent to " + strings.TrimSpace(email) + ", use it with 'reset'.")
	return nil
}

func (a *App) Reset(ctx context.Context, _ []string) error {
	token, err := a.text("Enter reset token")
	if err != nil {
		return err
	}
	password, err := a.secret("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Confirm new password")
	if err != nil {
		return err
	}

	if err := a.accounts.ResetPassword(ctx, token, password, confirm); err != nil {
		return err
	}
	a.println("Password changed, you can log in now.")
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (a *App) Account(ctx context.Context, _ []string) error {
	acc, err := a.accounts.Get(ctx, a.sess)
	if err != nil {
		return err
	}
	vault := "not set up"
	if acc.VaultExists {
		vault = "set up"
	}
	a.println("Username:       " + acc.Username)
	a.println("Email:          " + acc.Email)
	a.println("Picture:        " + acc.ProfilePicture)
	a.println("Registered:     " + formatTime(&acc.RegisteredAt))
	a.println("Last login:     " + formatTime(acc.LastLogin))
	a.println("Vault:          " + vault)
	if acc.HasMasterPassword() {
		n, err := a.vaults.CountEntries(ctx, a.sess)
		if err != nil {
			return err
		}
		a.println("Entries:        " + strconv.Itoa(n))
	}
	return nil
}

func (a *App) Edit(ctx context.Context, _ []string) error {
	username, err := a.text("New username (empty keeps the current one)")
	if err != nil {
		return err
	}
	email, err := a.text("New email (empty keeps the current one)")
	if err != nil {
		return err
	}

	changed, err := a.accounts.EditDetails(ctx, a.sess, username, email)
	if len(changed) > 0 {
		a.println("Changed: " + strings.Join(changed, ", "))
	}
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		a.println("Nothing changed.")
	}
	return nil
}

func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	current, err := a.secret("Enter current password")
	if err != nil {
		return err
	}
	password, err := a.secret("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Confirm new password")
	if err != nil {
		return err
	}

	if err := a.accounts.ChangePassword(ctx, a.sess, current, password, confirm); err != nil {
		return err
	}
	a.println("Password changed.")
	return nil
}

func (a *App) Picture(ctx context.Context, _ []string) error {
	path, err := a.text("Path to the picture")
	if err != nil {
		return err
	}
	if _, err := a.accounts.SetProfilePicture(ctx, a.sess, path); err != nil {
		return err
	}
	a.println("Profile picture updated.")
	return nil
}
