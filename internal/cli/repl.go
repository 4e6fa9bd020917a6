package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type handler func(ctx context.Context, args []string) error

// scope says when a command is available.
type scope int

const (
	anyone scope = iota
	guest
	user
)

func (s scope) allows(loggedIn bool) bool {
	return s == anyone || (s == user) == loggedIn
}

type command struct {
	name  string
	help  string
	scope scope
	run   handler
}

// execIface is what the REPL needs from the application.
type execIface interface {
	isLoggedIn() bool
	commands() []command
	println(args ...any)
}

// runREPL reads a command per line and dispatches it. Handler errors are
// shown through Describe; the loop only ends on "exit", "quit" or end of
// input.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	cmds := map[string]command{}
	for _, c := range a.commands() {
		cmds[c.name] = c
	}

	for {
		printlnFn(fmt.Sprintf("lp %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			a.println(helpText(a.commands(), a.isLoggedIn()))
			continue
		case "exit", "quit":
			a.println("Bye!")
			return
		}

		c, ok := cmds[name]
		if !ok || !c.scope.allows(a.isLoggedIn()) {
			a.println("Unknown command:", name)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			a.println(Describe(err))
		}
	}
}

func helpText(cmds []command, loggedIn bool) string {
	var b strings.Builder
	b.WriteString("Available commands:")
	for _, c := range cmds {
		if !c.scope.allows(loggedIn) {
			continue
		}
		fmt.Fprintf(&b, "\n  %-10s %s", c.name, c.help)
	}
	b.WriteString("\n  help       show this list\n  exit       leave the program")
	return b.String()
}

func (a *App) commands() []command {
	return []command{
		{name: "register", help: "create an account", scope: guest, run: a.Register},
		{name: "login", help: "sign in", scope: guest, run: a.Login},
		{name: "forgot", help: "email a password reset token", scope: guest, run: a.Forgot},
		{name: "reset", help: "reset your password with a token", scope: guest, run: a.Reset},
		{name: "generate", help: "generate a password", scope: anyone, run: a.Generate},

		{name: "account", help: "show account details", scope: user, run: a.Account},
		{name: "edit", help: "change username or email", scope: user, run: a.Edit},
		{name: "passwd", help: "change your login password", scope: user, run: a.ChangePassword},
		{name: "picture", help: "set your profile picture", scope: user, run: a.Picture},
		{name: "master", help: "set up or change the master password", scope: user, run: a.Master},
		{name: "unlock", help: "unlock the vault", scope: user, run: a.Unlock},
		{name: "lock", help: "lock the vault", scope: user, run: a.Lock},
		{name: "list", help: "list vault entries", scope: user, run: a.List},
		{name: "show", help: "show one vault entry: show <index>", scope: user, run: a.Show},
		{name: "add", help: "add a vault entry", scope: user, run: a.Add},
		{name: "update", help: "update a vault entry: update <index>", scope: user, run: a.Update},
		{name: "remove", help: "remove a vault entry: remove <index>", scope: user, run: a.Remove},
		{name: "logout", help: "sign out", scope: user, run: a.Logout},
	}
}
