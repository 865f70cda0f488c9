package notes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type BackupResult struct {
	Active            int
	RecycleBin        int
	TombstonesCleared int
}

// BackupToRemote replaces the user's remote note set with the local one:
// it deletes every remote row of the user, then inserts Active and
// recycle-bin notes as one batch. After both steps succeed the tombstone
// set is cleared, since the rows it guarded against no longer exist
// remotely. Active and recycle-bin notes are never modified.
//
// canBackup is the caller's verdict on whether the user's role may push.
func (s *Store) BackupToRemote(ctx context.Context, canBackup bool) (BackupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return BackupResult{}, ErrNotLoaded
	}
	if s.userKey == guestKey {
		return BackupResult{}, ErrGuestSession
	}
	if !canBackup {
		return BackupResult{}, ErrBackupNotAllowed
	}
	if s.remote == nil {
		return BackupResult{}, &BackupError{Step: BackupStepDelete, Err: ErrRemoteUnavailable}
	}

	log := s.log.With("user", s.userKey, "op", "backup")
	records := s.remoteRecords()

	if err := s.remote.DeleteAllNotesForUser(ctx, s.userKey); err != nil {
		log.Error(ctx, "remote delete failed", "error", err)
		return BackupResult{}, &BackupError{Step: BackupStepDelete, Err: err}
	}

	if len(records) > 0 {
		if err := s.remote.InsertNotes(ctx, records); err != nil {
			log.Error(ctx, "remote insert failed", "error", err, "records", len(records))
			return BackupResult{}, &BackupError{Step: BackupStepInsert, Err: err}
		}
	}

	res := BackupResult{
		Active:            len(s.st.active),
		RecycleBin:        len(s.st.tier1),
		TombstonesCleared: len(s.st.tier2),
	}

	if res.TombstonesCleared > 0 {
		next := s.st.clone()
		next.tier2 = idSet{}
		if err := s.commit(ctx, next); err != nil {
			res.TombstonesCleared = 0
			return res, fmt.Errorf("backup uploaded but clearing tombstones failed: %w", err)
		}
	}

	log.Info(ctx, "backup finished",
		"active", res.Active, "recycle_bin", res.RecycleBin, "tombstones_cleared", res.TombstonesCleared)
	return res, nil
}

func (s *Store) remoteRecords() []models.RemoteNote {
	out := make([]models.RemoteNote, 0, len(s.st.active)+len(s.st.tier1))
	for _, n := range s.st.activeSorted() {
		out = append(out, models.RemoteNote{
			ID:        n.ID,
			UserID:    s.userKey,
			Title:     n.Title,
			Content:   n.Content,
			Datestamp: n.Datestamp,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}
	for _, n := range s.st.tier1Sorted() {
		out = append(out, models.RemoteNote{
			ID:        n.ID,
			UserID:    s.userKey,
			Title:     n.Title,
			Content:   n.Content,
			Datestamp: n.Datestamp,
			IsDeleted: true,
			CreatedAt: n.CreatedAt,
			UpdatedAt: deletedAt(n),
		})
	}
	return out
}
