package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type SyncResult struct {
	Added             int
	AddedToRecycleBin int
	Skipped           int
}

// SyncFromRemote pulls the user's remote notes and adds those whose id is
// unknown locally: not Active, not in the recycle bin, not tombstoned and
// not in the deleted-id guard. Remote rows flagged deleted land in the
// recycle bin. Local notes are never changed or removed, so a second pull
// of the same remote set adds nothing.
//
// A failing remote leaves local state untouched and returns a zero result
// with an error matching ErrRemoteUnavailable.
func (s *Store) SyncFromRemote(ctx context.Context) (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return SyncResult{}, ErrNotLoaded
	}
	if s.userKey == guestKey {
		return SyncResult{}, ErrGuestSession
	}
	if s.remote == nil {
		return SyncResult{}, fmt.Errorf("%w: no remote configured", ErrRemoteUnavailable)
	}

	log := s.log.With("user", s.userKey, "op", "sync")

	records, err := s.remote.ListNotesForUser(ctx, s.userKey)
	if err != nil {
		log.Warn(ctx, "remote pull failed", "error", err)
		return SyncResult{}, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}

	var res SyncResult
	next := s.st.clone()

	for _, r := range records {
		r.ID = NormalizeNoteID(r.ID)
		if reason := remoteRecordProblem(r); reason != "" {
			log.Debug(ctx, "skipping remote record", "id", r.ID, "reason", reason)
			res.Skipped++
			continue
		}
		if next.known(r.ID) {
			res.Skipped++
			continue
		}

		n := noteFromRemote(r, s.stamp())
		if r.IsDeleted {
			next.tier1[n.ID] = n
			next.deleted[n.ID] = struct{}{}
			res.AddedToRecycleBin++
		} else {
			next.active[n.ID] = n
			res.Added++
		}
	}

	if res.Added+res.AddedToRecycleBin == 0 {
		log.Info(ctx, "sync finished, nothing new", "skipped", res.Skipped)
		return res, nil
	}

	if err := s.commit(ctx, next); err != nil {
		return SyncResult{}, err
	}

	log.Info(ctx, "sync finished",
		"added", res.Added, "added_to_recycle_bin", res.AddedToRecycleBin, "skipped", res.Skipped)
	return res, nil
}

func remoteRecordProblem(r models.RemoteNote) string {
	switch {
	case !IsValidNoteID(r.ID):
		return "invalid id"
	case strings.TrimSpace(r.Content) == "":
		return "empty content"
	case !IsValidDatestamp(r.Datestamp):
		return "invalid datestamp"
	}
	return ""
}

func noteFromRemote(r models.RemoteNote, now time.Time) models.Note {
	created := r.CreatedAt
	if created.IsZero() {
		created = now
	}
	updated := r.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	n := models.Note{
		ID:        NormalizeNoteID(r.ID),
		Title:     r.Title,
		Content:   r.Content,
		Datestamp: r.Datestamp,
		CreatedAt: created.UTC(),
		UpdatedAt: updated.UTC(),
	}
	if r.IsDeleted {
		d := updated.UTC()
		n.DeletedAt = &d
	}
	return n
}
