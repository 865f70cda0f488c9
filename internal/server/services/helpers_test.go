package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	notesrepo "github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	usersrepo "github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		BackupRoles:                 []string{common.RoleAdmin, common.RoleStaff},
		DefaultRole:                 common.RoleMember,
	}
}

type fakeUsersRepo struct {
	created   *models.User
	createErr error

	getOut *models.User
	getErr error
	getArg string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-1"
	u.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	f.getArg = login
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeNotesRepo struct {
	listOut []models.Note
	listErr error

	deleted   string
	deleteN   int64
	deleteErr error

	inserted  []models.Note
	insertErr error
	// handles records which DBTX each InsertBatch was bound to
	handles []dbx.DBTX
}

func (f *fakeNotesRepo) ListByUser(ctx context.Context, userID string) ([]models.Note, error) {
	return f.listOut, f.listErr
}

func (f *fakeNotesRepo) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleted = userID
	return f.deleteN, nil
}

func (f *fakeNotesRepo) InsertBatch(ctx context.Context, notes []models.Note) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, notes...)
	return int64(len(notes)), nil
}

type fakeRepoManager struct {
	users *fakeUsersRepo
	notes *fakeNotesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.users }

func (m *fakeRepoManager) Notes(db dbx.DBTX) notesrepo.Repository {
	m.notes.handles = append(m.notes.handles, db)
	return m.notes
}
