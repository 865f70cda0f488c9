// Package services contains application services for the notekeeper client.
// This file defines the authentication service: online and offline login,
// register, liveness probe and housekeeping of cached credentials.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/cryptox"
)

var ErrOfflineLoginFailed = errors.New("server unavailable and no cached credentials match")

// hashPassword is a seam for tests.
var hashPassword = cryptox.HashPassword

const credentialKeyPrefix = "session_"

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - OnlineLogin: authenticate against the server and cache the credential.
//   - OfflineLogin: verify the password against the cached credential.
//   - Register: create a new user on the server.
//   - Ping: check server liveness.
//   - Logout: drop the server token.
//   - ClearOfflineData: remove the cached credential of username.
//   - CachedUsers: usernames that can sign in offline, sorted.
type AuthService interface {
	OnlineLogin(ctx context.Context, username, password string) (client.Session, error)
	OfflineLogin(ctx context.Context, username, password string) (client.Session, error)
	Register(ctx context.Context, username, password string) (string, error)
	Ping(ctx context.Context) error
	Logout()
	ClearOfflineData(ctx context.Context, username string) error
	CachedUsers(ctx context.Context) ([]string, error)
}

// cachedCredential lets a user who signed in online before open their
// local notes while the server is unreachable.
type cachedCredential struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	CanBackup    bool   `json:"can_backup"`
	PasswordHash string `json:"password_hash"`
}

func credentialKey(username string) string {
	return credentialKeyPrefix + username
}

// authService is the concrete AuthService backed by a remote Client
// and the local metadata table.
type authService struct {
	client client.Client
	meta   metadata.Repository
}

// NewAuthService constructs an AuthService bound to the given API client and
// metadata repository.
func NewAuthService(c client.Client, meta metadata.Repository) AuthService {
	return &authService{client: c, meta: meta}
}

// OnlineLogin signs in on the server and caches an argon2id hash of the
// password so OfflineLogin works later. A caching failure does not fail
// the login.
func (a *authService) OnlineLogin(ctx context.Context, username, password string) (client.Session, error) {
	s, err := a.client.Login(ctx, username, password)
	if err != nil {
		return client.Session{}, err
	}

	if err := a.saveOfflineData(ctx, s, password); err != nil {
		return s, fmt.Errorf("offline data saving error: %w", err)
	}
	return s, nil
}

func (a *authService) saveOfflineData(ctx context.Context, s client.Session, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	b, err := json.Marshal(cachedCredential{
		UserID:       s.UserID,
		Username:     s.Username,
		Role:         s.Role,
		CanBackup:    s.CanBackup,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	return a.meta.Set(ctx, credentialKey(s.Username), b)
}

// OfflineLogin checks password against the credential cached by the last
// online login of username. Missing or mismatching data yields
// ErrOfflineLoginFailed.
func (a *authService) OfflineLogin(ctx context.Context, username, password string) (client.Session, error) {
	b, err := a.meta.Get(ctx, credentialKey(username))
	if err != nil {
		return client.Session{}, err
	}
	if b == nil {
		return client.Session{}, ErrOfflineLoginFailed
	}

	var c cachedCredential
	if err := json.Unmarshal(b, &c); err != nil {
		return client.Session{}, fmt.Errorf("cached credentials: %w", err)
	}

	ok, err := cryptox.VerifyPassword(password, c.PasswordHash)
	if err != nil || !ok {
		return client.Session{}, ErrOfflineLoginFailed
	}

	return client.Session{UserID: c.UserID, Username: c.Username, Role: c.Role, CanBackup: c.CanBackup}, nil
}

// Register creates a new account on the server and returns its id.
func (a *authService) Register(ctx context.Context, username, password string) (string, error) {
	return a.client.Register(ctx, username, password)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Logout() {
	a.client.Logout()
}

// ClearOfflineData removes the cached credential of username.
func (a *authService) ClearOfflineData(ctx context.Context, username string) error {
	return a.meta.Delete(ctx, credentialKey(username))
}

func (a *authService) CachedUsers(ctx context.Context) ([]string, error) {
	creds, err := a.meta.List(ctx, credentialKeyPrefix)
	if err != nil {
		return nil, err
	}
	users := make([]string, 0, len(creds))
	for key := range creds {
		users = append(users, strings.TrimPrefix(key, credentialKeyPrefix))
	}
	sort.Strings(users)
	return users, nil
}
