package notes

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/notekeeper/internal/client/localstore"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// memStorage is an in-memory Storage with failure injection.
type memStorage struct {
	mu      sync.Mutex
	data    map[string]localstore.Snapshot
	loadErr error
	saveErr error
	saves   int
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string]localstore.Snapshot{}}
}

func cloneNotes(ns []models.Note) []models.Note {
	out := make([]models.Note, len(ns))
	for i, n := range ns {
		out[i] = n.Clone()
	}
	return out
}

func cloneSnapshot(s localstore.Snapshot) localstore.Snapshot {
	return localstore.Snapshot{
		Active:       cloneNotes(s.Active),
		RecycleTier1: cloneNotes(s.RecycleTier1),
		RecycleTier2: append([]string{}, s.RecycleTier2...),
		DeletedIDs:   append([]string{}, s.DeletedIDs...),
	}
}

func (m *memStorage) LoadSnapshot(_ context.Context, userKey string) (localstore.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return localstore.Snapshot{}, m.loadErr
	}
	return cloneSnapshot(m.data[userKey]), nil
}

func (m *memStorage) SaveSnapshot(_ context.Context, userKey string, snap localstore.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[userKey] = cloneSnapshot(snap)
	m.saves++
	return nil
}

func (m *memStorage) get(userKey string) localstore.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSnapshot(m.data[userKey])
}

func (m *memStorage) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// fakeRemote records calls in order.
type fakeRemote struct {
	RemoteStore

	mu        sync.Mutex
	list      []models.RemoteNote
	listErr   error
	deleteErr error
	insertErr error
	delay     time.Duration

	calls    []string
	inserted []models.RemoteNote
}

func (f *fakeRemote) ListNotesForUser(_ context.Context, userID string) ([]models.RemoteNote, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list:"+userID)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.RemoteNote{}, f.list...), nil
}

func (f *fakeRemote) DeleteAllNotesForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+userID)
	return f.deleteErr
}

func (f *fakeRemote) InsertNotes(_ context.Context, records []models.RemoteNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("insert:%d", len(records)))
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, records...)
	return nil
}

func seqIDs() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return testID(n), nil
	}
}

// testID returns a valid UUID-v4 string distinct per n.
func testID(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}

func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := baseTime
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func newTestStore(t *testing.T, user string, storage Storage, remote RemoteStore) *Store {
	t.Helper()
	s := NewStore(storage, remote, nil, WithClock(steppingClock()), WithIDGenerator(seqIDs()))
	require.NoError(t, s.Load(context.Background(), user))
	return s
}

func input(content, date string) models.NoteInput {
	return models.NoteInput{Content: content, Datestamp: date}
}

func activeIDs(s *Store) []string {
	var out []string
	for _, n := range s.Active() {
		out = append(out, n.ID)
	}
	return out
}

func binIDs(s *Store) []string {
	var out []string
	for _, n := range s.RecycleBin() {
		out = append(out, n.ID)
	}
	return out
}

func remoteNote(id, content string, deleted bool) models.RemoteNote {
	return models.RemoteNote{
		ID:        id,
		Title:     "t-" + content,
		Content:   content,
		Datestamp: "2024-02-02",
		IsDeleted: deleted,
		CreatedAt: baseTime.Add(-48 * time.Hour),
		UpdatedAt: baseTime.Add(-24 * time.Hour),
	}
}

// assertDisjoint checks that no id is both Active and in the recycle bin.
func assertDisjoint(t *testing.T, s *Store) {
	t.Helper()
	active := map[string]bool{}
	for _, id := range activeIDs(s) {
		active[id] = true
	}
	for _, id := range binIDs(s) {
		require.False(t, active[id], "id %s is both active and in recycle bin", id)
	}
}

func remoteID(n int) string {
	return fmt.Sprintf("11111111-1111-4111-9111-%012d", n)
}

func snapshotWithDeleted(ids ...string) localstore.Snapshot {
	return localstore.Snapshot{DeletedIDs: ids}
}
