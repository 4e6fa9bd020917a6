package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lightningpass/internal/models"
	"github.com/dmitrijs2005/lightningpass/internal/passgen"
)

func (a *App) Master(ctx context.Context, _ []string) error {
	login, err := a.secret("Enter your login password")
	if err != nil {
		return err
	}
	master, err := a.secret("Enter new master password")
	if err != nil {
		return err
	}
	confirm, err := a.secret("Confirm master password")
	if err != nil {
		return err
	}

	if err := a.vaults.SetupMasterPassword(ctx, a.sess, login, master, confirm); err != nil {
		return err
	}
	a.println("Master password set, your vault is unlocked.")
	return nil
}

func (a *App) Unlock(ctx context.Context, _ []string) error {
	master, err := a.secret("Enter master password")
	if err != nil {
		return err
	}
	if err := a.vaults.Unlock(ctx, a.sess, master); err != nil {
		return err
	}
	a.println("Vault unlocked.")
	return nil
}

func (a *App) Lock(_ context.Context, _ []string) error {
	a.vaults.Lock(a.sess)
	a.println("Vault locked.")
	return nil
}

func (a *App) List(ctx context.Context, _ []string) error {
	entries, err := a.vaults.ListEntries(ctx, a.sess)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.println("Your vault is empty.")
		return nil
	}
	for _, e := range entries {
		a.println(fmt.Sprintf("%3d  %-20s %-30s %s", e.Index, e.PlatformName, e.Website, e.Username))
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	index, err := indexArg(args, "show")
	if err != nil {
		return err
	}
	e, err := a.vaults.GetEntry(ctx, a.sess, index)
	if err != nil {
		return err
	}
	a.println("Platform: " + e.PlatformName)
	a.println("Website:  " + e.Website)
	a.println("Username: " + e.Username)
	a.println("Email:    " + e.Email)
	a.println("Password: " + e.Password)
	return nil
}

// readFields prompts for every vault field. Empty answers fall back to
// current; an empty password with no current value is generated.
func (a *App) readFields(ctx context.Context, current models.VaultFields) (models.VaultFields, error) {
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Platform name", &current.PlatformName},
		{"Website", &current.Website},
		{"Username", &current.Username},
		{"Email", &current.Email},
	}
	for _, p := range prompts {
		label := p.label
		if *p.dst != "" {
			label += " [" + *p.dst + "]"
		}
		v, err := a.text(label)
		if err != nil {
			return current, err
		}
		if v != "" {
			*p.dst = v
		}
	}

	pw, err := a.secret("Password (empty to generate one)")
	if err != nil {
		return current, err
	}
	switch {
	case pw != "":
		current.Password = pw
	case current.Password == "":
		generated, err := a.generate(ctx, passgen.Options{
			Length: passgen.MinLength, Numbers: true, Symbols: true, Lowercase: true, Uppercase: true,
		})
		if err != nil {
			return current, err
		}
		current.Password = generated
	}
	return current, nil
}

func (a *App) Add(ctx context.Context, _ []string) error {
	fields, err := a.readFields(ctx, models.VaultFields{})
	if err != nil {
		return err
	}
	e, err := a.vaults.AddEntry(ctx, a.sess, fields)
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Saved as entry %d.", e.Index))
	return nil
}

func (a *App) Update(ctx context.Context, args []string) error {
	index, err := indexArg(args, "update")
	if err != nil {
		return err
	}
	e, err := a.vaults.GetEntry(ctx, a.sess, index)
	if err != nil {
		return err
	}
	fields, err := a.readFields(ctx, models.VaultFields{
		PlatformName: e.PlatformName,
		Website:      e.Website,
		Username:     e.Username,
		Email:        e.Email,
		Password:     e.Password,
	})
	if err != nil {
		return err
	}

	changed, err := a.vaults.UpdateEntry(ctx, a.sess, index, fields)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		a.println("Nothing changed.")
		return nil
	}
	a.println(fmt.Sprintf("Changed: %v", changed))
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	index, err := indexArg(args, "remove")
	if err != nil {
		return err
	}
	if err := a.vaults.RemoveEntry(ctx, a.sess, index); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Entry %d removed.", index))
	return nil
}
