package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/notes"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// getSimpleText and getPassword are indirections swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNoSession = errors.New("no open session: use login or guest first")

func (a *App) readCredentials(args []string) (string, string, error) {
	var (
		username string
		err      error
	)
	if len(args) > 0 {
		username = args[0]
	} else {
		username, err = getSimpleText(a.reader, "Enter username", a.out)
		if err != nil {
			return "", "", err
		}
	}
	if username == "" {
		return "", "", fmt.Errorf("%w: username is required", client.ErrInvalidArgument)
	}

	pw, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	password := string(pw)
	common.WipeByteArray(pw)

	return username, password, nil
}

func (a *App) Register(ctx context.Context, args []string) error {
	username, password, err := a.readCredentials(args)
	if err != nil {
		return err
	}

	id, err := a.auth.Register(ctx, username, password)
	if err != nil {
		return err
	}

	a.printf("Registered %s (%s). Use 'login' to sign in.\n", username, id)
	return nil
}

// Login closes any open session and signs in online. When the server is
// unreachable it falls back to the credentials cached by the last
// successful online login.
func (a *App) Login(ctx context.Context, args []string) error {
	username, password, err := a.readCredentials(args)
	if err != nil {
		return err
	}
	a.closeSession()

	s, err := a.auth.OnlineLogin(ctx, username, password)
	if err == nil || s.UserID != "" {
		if err != nil {
			a.logger.Warn(ctx, "could not cache credentials", "error", err)
		}
		a.setMode(ctx, ModeOnline)
		return a.openSession(ctx, &s)
	}

	if !errors.Is(err, client.ErrUnavailable) {
		return err
	}

	a.logger.Info(ctx, "Server unavailable, trying offline login...")
	s, err = a.auth.OfflineLogin(ctx, username, password)
	if err != nil {
		return err
	}
	a.setMode(ctx, ModeOffline)
	return a.openSession(ctx, &s)
}

// Accounts lists the users whose credentials are cached for offline login.
func (a *App) Accounts(ctx context.Context, _ []string) error {
	users, err := a.auth.CachedUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		a.println("No cached accounts.")
		return nil
	}
	for _, u := range users {
		a.println(u)
	}
	return nil
}

// Guest opens the local-only guest namespace.
func (a *App) Guest(ctx context.Context, _ []string) error {
	a.closeSession()
	return a.openSession(ctx, nil)
}

func (a *App) openSession(ctx context.Context, s *client.Session) error {
	key := common.GuestUserKey
	var remote notes.RemoteStore
	if s != nil {
		key = s.UserID
		remote = a.remote
	}

	store := a.storeFn(remote)
	if err := store.Load(ctx, key); err != nil {
		return err
	}

	a.store = store
	a.session = s

	c := store.Counts()
	who := "guest"
	if s != nil {
		who = s.Username
	}
	a.printf("Opened notes for %s: %d active, %d in recycle bin.\n", who, c.Active, c.RecycleBin)
	return nil
}

func (a *App) closeSession() {
	if a.session != nil {
		a.auth.Logout()
	}
	a.store = nil
	a.session = nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.closeSession()
	a.println("Signed out.")
	return nil
}

// Wipe removes every local record of the current session, including the
// cached credentials, and signs out.
func (a *App) Wipe(ctx context.Context, _ []string) error {
	if !Confirm(a.reader, "Delete all local notes of this session? [y/N]", a.out) {
		a.println("Cancelled.")
		return nil
	}

	if err := a.local.Forget(ctx, a.store.UserKey()); err != nil {
		return err
	}
	if a.session != nil {
		if err := a.auth.ClearOfflineData(ctx, a.session.Username); err != nil {
			return err
		}
	}

	a.closeSession()
	a.println("Local data removed.")
	return nil
}
