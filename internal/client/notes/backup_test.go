package notes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// seedForBackup leaves one active note, one recycle-bin note and one
// tombstone.
func seedForBackup(t *testing.T, s *Store) (active, binned models.Note) {
	t.Helper()
	ctx := context.Background()

	active, err := s.Create(ctx, models.NoteInput{Title: "a", Content: "alive", Datestamp: "2024-01-02"})
	require.NoError(t, err)
	binned, err = s.Create(ctx, input("binned", "2024-01-01"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, binned.ID))
	binned, _ = s.Get(binned.ID)

	gone, err := s.Create(ctx, input("gone", "2024-01-01"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, gone.ID))
	_, err = s.Purge(ctx, gone.ID)
	require.NoError(t, err)

	return active, binned
}

func TestBackup_ReplacesRemoteAndClearsTombstones(t *testing.T) {
	ctx := context.Background()
	st := newMemStorage()
	remote := &fakeRemote{}
	s := newTestStore(t, "alice", st, remote)
	active, binned := seedForBackup(t, s)

	activeBefore, binBefore := s.Active(), s.RecycleBin()

	res, err := s.BackupToRemote(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, BackupResult{Active: 1, RecycleBin: 1, TombstonesCleared: 1}, res)

	assert.Equal(t, []string{"delete:alice", "insert:2"}, remote.calls, "delete strictly before insert")

	require.Len(t, remote.inserted, 2)
	up := remote.inserted[0]
	assert.Equal(t, active.ID, up.ID)
	assert.Equal(t, "alice", up.UserID)
	assert.Equal(t, "a", up.Title)
	assert.False(t, up.IsDeleted)
	assert.Equal(t, active.UpdatedAt, up.UpdatedAt)

	del := remote.inserted[1]
	assert.Equal(t, binned.ID, del.ID)
	assert.True(t, del.IsDeleted)
	assert.Equal(t, *binned.DeletedAt, del.UpdatedAt, "deleted rows carry deletedAt as updated_at")

	assert.Empty(t, s.Tier2IDs())
	assert.Empty(t, st.get("alice").RecycleTier2)
	assert.Equal(t, activeBefore, s.Active(), "push never mutates active")
	assert.Equal(t, binBefore, s.RecycleBin(), "push never mutates recycle bin")
}

func TestBackup_EmptyLocalSkipsInsert(t *testing.T) {
	remote := &fakeRemote{}
	s := newTestStore(t, "u", newMemStorage(), remote)

	res, err := s.BackupToRemote(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, BackupResult{}, res)
	assert.Equal(t, []string{"delete:u"}, remote.calls)
}

func TestBackup_DeleteFailure(t *testing.T) {
	ctx := context.Background()
	st := newMemStorage()
	remote := &fakeRemote{deleteErr: errors.New("permission denied for table notes")}
	s := newTestStore(t, "u", st, remote)
	seedForBackup(t, s)
	tombs := s.Tier2IDs()
	saves := st.saveCount()

	res, err := s.BackupToRemote(ctx, true)
	require.ErrorIs(t, err, ErrBackupFailed)
	assert.Contains(t, err.Error(), "permission denied for table notes")

	var be *BackupError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, BackupStepDelete, be.Step)

	assert.Equal(t, BackupResult{}, res)
	assert.Equal(t, []string{"delete:u"}, remote.calls, "insert is not attempted")
	assert.Equal(t, tombs, s.Tier2IDs())
	assert.Equal(t, saves, st.saveCount())
}

func TestBackup_InsertFailureKeepsTombstones(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{insertErr: errors.New("timeout")}
	s := newTestStore(t, "u", newMemStorage(), remote)
	seedForBackup(t, s)
	tombs := s.Tier2IDs()

	_, err := s.BackupToRemote(ctx, true)
	var be *BackupError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, BackupStepInsert, be.Step)
	assert.Equal(t, tombs, s.Tier2IDs())

	// retry succeeds once the remote recovers
	remote.insertErr = nil
	_, err = s.BackupToRemote(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, s.Tier2IDs())
}

func TestBackup_TombstoneClearFailure(t *testing.T) {
	ctx := context.Background()
	st := newMemStorage()
	s := newTestStore(t, "u", st, &fakeRemote{})
	seedForBackup(t, s)
	st.saveErr = errors.New("readonly")

	res, err := s.BackupToRemote(ctx, true)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBackupFailed), "the remote part succeeded")
	assert.Zero(t, res.TombstonesCleared)
	assert.Len(t, s.Tier2IDs(), 1)
}

func TestBackup_Guards(t *testing.T) {
	ctx := context.Background()

	remote := &fakeRemote{}
	s := newTestStore(t, "u", newMemStorage(), remote)
	_, err := s.BackupToRemote(ctx, false)
	require.ErrorIs(t, err, ErrBackupNotAllowed)
	assert.Empty(t, remote.calls)

	guest := newTestStore(t, "guest", newMemStorage(), remote)
	_, err = guest.BackupToRemote(ctx, true)
	require.ErrorIs(t, err, ErrGuestSession)
	assert.Empty(t, remote.calls)

	offline := newTestStore(t, "u", newMemStorage(), nil)
	_, err = offline.BackupToRemote(ctx, true)
	require.ErrorIs(t, err, ErrBackupFailed)
}
