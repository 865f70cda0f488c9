package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/exporter"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/notes"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	client.Client

	mu          sync.Mutex
	pingErr     error
	pings       int
	session     client.Session
	loginErr    error
	registerErr error
	registered  []string
	logouts     int
	remoteNotes []models.RemoteNote
	listErr     error
	deletedFor  []string
	inserted    []models.RemoteNote
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeClient) Register(ctx context.Context, username, password string) (string, error) {
	f.registered = append(f.registered, username+":"+password)
	return "new-user-id", f.registerErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (client.Session, error) {
	if f.loginErr != nil {
		return client.Session{}, f.loginErr
	}
	s := f.session
	s.Username = username
	return s, nil
}

func (f *fakeClient) Logout() { f.logouts++ }

func (f *fakeClient) ListNotesForUser(ctx context.Context, userID string) ([]models.RemoteNote, error) {
	return f.remoteNotes, f.listErr
}

func (f *fakeClient) DeleteAllNotesForUser(ctx context.Context, userID string) error {
	f.deletedFor = append(f.deletedFor, userID)
	return nil
}

func (f *fakeClient) InsertNotes(ctx context.Context, records []models.RemoteNote) error {
	f.inserted = append(f.inserted, records...)
	return nil
}

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, input string, fc *fakeClient) (*App, *bytes.Buffer) {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	oldPw := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte("pw"), nil }
	t.Cleanup(func() { getPassword = oldPw })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	var out bytes.Buffer
	a := newApp(cfg, db, fc, exporter.NewFileSink(t.TempDir()), nil, strings.NewReader(input), &out)
	a.now = func() time.Time { return fixedNow }
	return a, &out
}

func TestApp_RequiresSession(t *testing.T) {
	a, _ := newTestApp(t, "", &fakeClient{})
	ctx := context.Background()

	require.ErrorIs(t, a.exec(ctx, "list", nil), errNoSession)
	require.ErrorIs(t, a.exec(ctx, "nope", nil), errUnknownCommand)
	assert.Contains(t, a.help(), "guest")
	assert.NotContains(t, a.help(), "sync")
}

func TestApp_GuestNoteLifecycle(t *testing.T) {
	input := strings.Join([]string{
		"Groceries", "", "milk", "eggs", "",
		"y",
	}, "\n") + "\n"
	a, out := newTestApp(t, input, &fakeClient{})
	ctx := context.Background()

	require.NoError(t, a.exec(ctx, "guest", nil))
	require.Equal(t, "(guest offline)", a.getStatus())
	require.Contains(t, a.help(), "sync")

	require.NoError(t, a.exec(ctx, "add", nil))
	active := a.store.Active()
	require.Len(t, active, 1)
	n := active[0]
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, "milk\neggs", n.Content)
	assert.Equal(t, "2024-03-01", n.Datestamp)

	out.Reset()
	require.NoError(t, a.exec(ctx, "ls", nil))
	assert.Contains(t, out.String(), shortID(n.ID)+"  2024-03-01  Groceries")

	require.NoError(t, a.exec(ctx, "search", []string{"EGGS"}))
	require.NoError(t, a.exec(ctx, "list", []string{"2024-03-01"}))
	require.Error(t, a.exec(ctx, "list", []string{"bad-date"}))

	require.NoError(t, a.exec(ctx, "delete", []string{shortID(n.ID)}))
	assert.Empty(t, a.store.Active())
	require.Len(t, a.store.RecycleBin(), 1)

	require.NoError(t, a.exec(ctx, "restore", []string{n.ID}))
	require.Len(t, a.store.Active(), 1)

	require.NoError(t, a.exec(ctx, "delete", []string{n.ID}))
	require.NoError(t, a.exec(ctx, "empty", nil))
	assert.Empty(t, a.store.RecycleBin())
	assert.Equal(t, []string{n.ID}, a.store.Tier2IDs())

	require.ErrorIs(t, a.exec(ctx, "sync", nil), notes.ErrGuestSession)
}

func TestApp_EditKeepsContentWhenBlank(t *testing.T) {
	input := strings.Join([]string{
		"", "2024-01-05", "original", "",
		"Renamed", "", "",
	}, "\n") + "\n"
	a, _ := newTestApp(t, input, &fakeClient{})
	ctx := context.Background()

	require.NoError(t, a.exec(ctx, "guest", nil))
	require.NoError(t, a.exec(ctx, "add", nil))
	id := a.store.Active()[0].ID

	require.NoError(t, a.exec(ctx, "edit", []string{id[:6]}))
	n, ok := a.store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Renamed", n.Title)
	assert.Equal(t, "2024-01-05", n.Datestamp)
	assert.Equal(t, "original", n.Content)

	require.ErrorIs(t, a.exec(ctx, "edit", []string{"ffffffff"}), notes.ErrNotFound)
	require.Error(t, a.exec(ctx, "edit", nil))
}

func TestApp_LoginSyncAndBackup(t *testing.T) {
	remote := models.RemoteNote{
		ID:        "11111111-1111-4111-9111-000000000001",
		UserID:    "u1",
		Content:   "from server",
		Datestamp: "2024-02-01",
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	fc := &fakeClient{
		session:     client.Session{UserID: "u1", Role: "admin", CanBackup: true},
		remoteNotes: []models.RemoteNote{remote},
	}
	a, out := newTestApp(t, "y\n", fc)
	ctx := context.Background()

	require.NoError(t, a.exec(ctx, "login", []string{"alice"}))
	assert.Equal(t, ModeOnline, a.Mode())
	assert.Equal(t, "(alice online)", a.getStatus())
	assert.Equal(t, "u1", a.store.UserKey())

	require.NoError(t, a.exec(ctx, "sync", nil))
	assert.Contains(t, out.String(), "Sync: 1 added, 0 added to recycle bin, 0 skipped.")

	require.NoError(t, a.exec(ctx, "backup", nil))
	assert.Equal(t, []string{"u1"}, fc.deletedFor)
	require.Len(t, fc.inserted, 1)
	assert.Equal(t, remote.ID, fc.inserted[0].ID)

	require.NoError(t, a.exec(ctx, "logout", nil))
	assert.Equal(t, 1, fc.logouts)
	assert.False(t, a.hasSession())
}

func TestApp_BackupNeedsRole(t *testing.T) {
	fc := &fakeClient{session: client.Session{UserID: "u2", Role: "member"}}
	a, _ := newTestApp(t, "y\n", fc)
	ctx := context.Background()

	require.NoError(t, a.exec(ctx, "login", []string{"bob"}))
	require.ErrorIs(t, a.exec(ctx, "backup", nil), notes.ErrBackupNotAllowed)
	assert.Empty(t, fc.deletedFor)
}

func TestApp_OfflineLoginUsesCachedCredentials(t *testing.T) {
	fc := &fakeClient{session: client.Session{UserID: "u3", CanBackup: true}}
	a, _ := newTestApp(t, "", fc)
	ctx := context.Background()

	require.NoError(t, a.exec(ctx, "login", []string{"carol"}))
	require.NoError(t, a.exec(ctx, "logout", nil))

	fc.loginErr = client.ErrUnavailable
	require.NoError(t, a.exec(ctx, "login", []string{"carol"}))
	assert.Equal(t, ModeOffline, a.Mode())
	assert.Equal(t, "u3", a.store.UserKey())
	assert.True(t, a.session.CanBackup)

	require.ErrorIs(t, a.exec(ctx, "login", []string{"dave"}), services.ErrOfflineLoginFailed)

	getPassword = func(io.Writer) ([]byte, error) { return []byte("wrong"), nil }
	require.ErrorIs(t, a.exec(ctx, "login", []string{"carol"}), services.ErrOfflineLoginFailed)
}

func TestApp_LoginRejected(t *testing.T) {
	fc := &fakeClient{loginErr: client.ErrUnauthorized}
	a, _ := newTestApp(t, "", fc)

	require.ErrorIs(t, a.exec(context.Background(), "login", []string{"eve"}), client.ErrUnauthorized)
	assert.False(t, a.hasSession())
}

func TestApp_Register(t *testing.T) {
	fc := &fakeClient{}
	a, out := newTestApp(t, "frank\n", fc)

	require.NoError(t, a.exec(context.Background(), "register", nil))
	assert.Equal(t, []string{"frank:pw"}, fc.registered)
	assert.Contains(t, out.String(), "Registered frank (new-user-id)")
}

func TestApp_ExportThenImport(t *testing.T) {
	input := strings.Join([]string{
		"Title", "", "body", "",
		"y",
	}, "\n") + "\n"
	a, out := newTestApp(t, input, &fakeClient{})
	ctx := context.Background()

	require.NoError(t, a.exec(ctx, "guest", nil))
	require.ErrorIs(t, a.exec(ctx, "export", nil), notes.ErrNothingToExport)

	require.NoError(t, a.exec(ctx, "add", nil))
	id := a.store.Active()[0].ID

	out.Reset()
	require.NoError(t, a.exec(ctx, "export", nil))
	loc := strings.TrimSpace(strings.TrimPrefix(out.String(), "Exported to "))
	assert.Equal(t, "notes-backup-2024-03-01.json", filepath.Base(loc))
	_, err := os.Stat(loc)
	require.NoError(t, err)

	require.NoError(t, a.exec(ctx, "delete", []string{id}))
	require.NoError(t, a.exec(ctx, "purge", []string{id}))

	// merge keeps the purged id out
	require.NoError(t, a.exec(ctx, "import", []string{loc}))
	assert.Empty(t, a.store.Active())

	require.NoError(t, a.exec(ctx, "import", []string{loc, "replace"}))
	require.Len(t, a.store.Active(), 1)
	assert.Equal(t, id, a.store.Active()[0].ID)
	assert.Empty(t, a.store.Tier2IDs())

	require.Error(t, a.exec(ctx, "import", []string{loc, "sideways"}))
	require.Error(t, a.exec(ctx, "import", []string{filepath.Join(t.TempDir(), "missing.json")}))
}

func TestApp_WipeRemovesLocalData(t *testing.T) {
	input := strings.Join([]string{
		"", "", "note", "",
		"y",
	}, "\n") + "\n"
	a, _ := newTestApp(t, input, &fakeClient{})
	ctx := context.Background()

	require.NoError(t, a.exec(ctx, "guest", nil))
	require.NoError(t, a.exec(ctx, "add", nil))
	require.NoError(t, a.exec(ctx, "wipe", nil))
	assert.False(t, a.hasSession())

	require.NoError(t, a.exec(ctx, "guest", nil))
	assert.Empty(t, a.store.Active())
}

func TestApp_OnlineWatcherSwitchesMode(t *testing.T) {
	fc := &fakeClient{}
	a, _ := newTestApp(t, "", fc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)

	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	fc.mu.Lock()
	fc.pingErr = client.ErrUnavailable
	fc.mu.Unlock()

	require.Eventually(t, func() bool { return a.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)
}

func TestResolveID(t *testing.T) {
	ns := []models.Note{
		{ID: "abcd0000-0000-4000-8000-000000000001"},
		{ID: "abcd1111-0000-4000-8000-000000000002"},
	}

	id, err := resolveID("ABCD1", ns)
	require.NoError(t, err)
	assert.Equal(t, ns[1].ID, id)

	_, err = resolveID("abcd", ns)
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveID("ffff", ns)
	assert.ErrorIs(t, err, notes.ErrNotFound)

	id, err = resolveID(ns[0].ID, ns)
	require.NoError(t, err)
	assert.Equal(t, ns[0].ID, id)
}

func TestApp_LoginReplacesOpenSession(t *testing.T) {
	fc := &fakeClient{session: client.Session{UserID: "u1"}}
	a, _ := newTestApp(t, "", fc)
	ctx := context.Background()

	require.NoError(t, a.exec(ctx, "login", []string{"alice"}))
	assert.Zero(t, fc.logouts)

	require.NoError(t, a.exec(ctx, "login", []string{"bob"}))
	assert.Equal(t, 1, fc.logouts)
	assert.Equal(t, "bob", a.session.Username)

	fc.loginErr = client.ErrUnauthorized
	require.ErrorIs(t, a.exec(ctx, "login", []string{"bob"}), client.ErrUnauthorized)
	assert.Equal(t, 2, fc.logouts)
	assert.False(t, a.hasSession())
}

func TestApp_AccountsListsCachedLogins(t *testing.T) {
	fc := &fakeClient{session: client.Session{UserID: "u1"}}
	a, out := newTestApp(t, "", fc)
	ctx := context.Background()

	require.NoError(t, a.exec(ctx, "accounts", nil))
	assert.Contains(t, out.String(), "No cached accounts.")

	require.NoError(t, a.exec(ctx, "login", []string{"zoe"}))
	require.NoError(t, a.exec(ctx, "logout", nil))
	out.Reset()

	require.NoError(t, a.exec(ctx, "accounts", nil))
	assert.Equal(t, "zoe\n", out.String())
}
