package cli

import (
	"context"
	"errors"
	"fmt"
)

var errUnknownCommand = errors.New("unknown command")

type command struct {
	name    string
	usage   string
	session bool
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{name: "register", usage: "register [username]", run: (*App).Register},
	{name: "login", usage: "login [username]", run: (*App).Login},
	{name: "guest", usage: "guest", run: (*App).Guest},
	{name: "accounts", usage: "accounts", run: (*App).Accounts},
	{name: "add", usage: "add", session: true, run: (*App).Add},
	{name: "edit", usage: "edit <id>", session: true, run: (*App).Edit},
	{name: "list", usage: "list [from [to]]", session: true, run: (*App).List},
	{name: "show", usage: "show <id>", session: true, run: (*App).Show},
	{name: "search", usage: "search <text>", session: true, run: (*App).Search},
	{name: "dates", usage: "dates", session: true, run: (*App).Dates},
	{name: "delete", usage: "delete <id>", session: true, run: (*App).Delete},
	{name: "bin", usage: "bin", session: true, run: (*App).Bin},
	{name: "restore", usage: "restore <id>...", session: true, run: (*App).Restore},
	{name: "purge", usage: "purge <id>...", session: true, run: (*App).Purge},
	{name: "empty", usage: "empty", session: true, run: (*App).Empty},
	{name: "stats", usage: "stats", session: true, run: (*App).Stats},
	{name: "sync", usage: "sync", session: true, run: (*App).Sync},
	{name: "backup", usage: "backup", session: true, run: (*App).Backup},
	{name: "export", usage: "export", session: true, run: (*App).Export},
	{name: "import", usage: "import <file> [merge|replace]", session: true, run: (*App).Import},
	{name: "wipe", usage: "wipe", session: true, run: (*App).Wipe},
	{name: "logout", usage: "logout", session: true, run: (*App).Logout},
}

var aliases = map[string]string{
	"l":  "list",
	"ls": "list",
	"rm": "delete",
}

func lookupCommand(name string) (command, bool) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (a *App) hasSession() bool {
	return a.store != nil
}

func (a *App) help() []string {
	out := []string{"help", "exit"}
	for _, c := range commands {
		if c.session == a.hasSession() || (!c.session && c.name != "register") {
			out = append(out, c.usage)
		}
	}
	return out
}

func (a *App) exec(ctx context.Context, name string, args []string) error {
	c, ok := lookupCommand(name)
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownCommand, name)
	}
	if c.session && !a.hasSession() {
		return errNoSession
	}
	return c.run(a, ctx, args)
}
