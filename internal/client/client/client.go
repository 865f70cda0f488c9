package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// Session describes the signed-in user as reported by the server.
type Session struct {
	UserID    string
	Username  string
	Role      string
	CanBackup bool
	ExpiresAt time.Time
}

type Client interface {
	Close() error
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (Session, error)
	Logout()
	Ping(ctx context.Context) error

	ListNotesForUser(ctx context.Context, userID string) ([]models.RemoteNote, error)
	DeleteAllNotesForUser(ctx context.Context, userID string) error
	InsertNotes(ctx context.Context, records []models.RemoteNote) error
}
