// Package cli is the line-oriented front-end of Lightning Pass. It reads
// commands, prompts for their input and calls the services.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/services"
	"github.com/dmitrijs2005/lightningpass/internal/session"
)

var errUsage = errors.New("usage")

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}

type App struct {
	accounts *services.AccountService
	vaults   *services.VaultService
	sess     *session.Session
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(accounts *services.AccountService, vaults *services.VaultService, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		accounts: accounts,
		vaults:   vaults,
		sess:     session.New(),
		logger:   logger,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run prints the banner and serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to Lightning Pass (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
	a.sess.SignOut()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) text(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) secret(prompt string) (string, error) {
	return GetPassword(a.reader, prompt, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.sess.LoggedIn()
}

func (a *App) getStatus() string {
	if !a.sess.LoggedIn() {
		return ""
	}
	s := a.sess.Username()
	switch {
	case a.sess.Unlocked():
		s += " vault:open"
	case a.sess.HasMasterPassword():
		s += " vault:locked"
	}
	return "(" + s + ")"
}

func indexArg(args []string, cmd string) (int, error) {
	if len(args) != 1 {
		return 0, usage(cmd + " <index>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, usage(cmd + " <index>")
	}
	return n, nil
}
