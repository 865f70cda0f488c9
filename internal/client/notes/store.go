// Package notes is the offline-first note store: active notes, a two-tier
// recycle bin, an additive pull from the hosted note store, a full-replace
// backup push, and JSON export/import.
//
// One Store serves one signed-in user key. Its methods are safe for
// concurrent use; each call holds the store lock until it returns,
// including the remote round trip of SyncFromRemote and BackupToRemote.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/localstore"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// Storage is the durable local backend. localstore.Store implements it.
type Storage interface {
	LoadSnapshot(ctx context.Context, userKey string) (localstore.Snapshot, error)
	SaveSnapshot(ctx context.Context, userKey string, snap localstore.Snapshot) error
}

// RemoteStore is the hosted note table, already authenticated for the user.
type RemoteStore interface {
	ListNotesForUser(ctx context.Context, userID string) ([]models.RemoteNote, error)
	DeleteAllNotesForUser(ctx context.Context, userID string) error
	InsertNotes(ctx context.Context, records []models.RemoteNote) error
}

const guestKey = common.GuestUserKey

type Store struct {
	mu      sync.Mutex
	storage Storage
	remote  RemoteStore
	log     logging.Logger
	now     func() time.Time
	newID   func() (string, error)

	userKey string
	st      *state
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) { s.newID = gen }
}

// NewStore builds an unloaded store. remote may be nil for a store that
// never talks to the hosted note store (the guest session).
func NewStore(storage Storage, remote RemoteStore, logger logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{
		storage: storage,
		remote:  remote,
		log:     logger.With("module", "notes"),
		now:     time.Now,
		newID:   GenerateNoteID,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) UserKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userKey
}

func (s *Store) IsGuest() bool {
	return s.UserKey() == guestKey
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

// Load reads the buckets of userKey from local storage and repairs them:
// invalid ids are regenerated, an id present in both Active and the recycle
// bin keeps its Active copy, and unusable records are dropped. Repairs are
// persisted immediately. Corrupt records degrade to empty buckets; only a
// failing storage backend is an error.
func (s *Store) Load(ctx context.Context, userKey string) error {
	if strings.TrimSpace(userKey) == "" {
		return &ValidationError{Field: "userKey", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.With("user", userKey)

	snap, err := s.storage.LoadSnapshot(ctx, userKey)
	if err != nil {
		if !errors.Is(err, localstore.ErrCorruptRecord) {
			return fmt.Errorf("load notes: %w", err)
		}
		log.Warn(ctx, "corrupt local notes record, using empty bucket", "error", err)
	}

	st, repaired, err := s.rebuild(ctx, log, snap)
	if err != nil {
		return err
	}

	if repaired {
		if err := s.storage.SaveSnapshot(ctx, userKey, st.snapshot()); err != nil {
			return fmt.Errorf("persist repaired notes: %w", err)
		}
		log.Info(ctx, "repaired local notes")
	}

	s.userKey = userKey
	s.st = st
	log.Debug(ctx, "notes loaded", "active", len(st.active), "recycle_bin", len(st.tier1))
	return nil
}

func (s *Store) rebuild(ctx context.Context, log logging.Logger, snap localstore.Snapshot) (*state, bool, error) {
	st := newState()
	repaired := false

	// fixID returns the id n was stored under when it had to be replaced.
	fixID := func(n *models.Note) (string, error) {
		if id := NormalizeNoteID(n.ID); id != n.ID && IsValidNoteID(id) {
			n.ID = id
			repaired = true
		}
		if IsValidNoteID(n.ID) {
			return "", nil
		}
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generate note id: %w", err)
		}
		log.Warn(ctx, "invalid note id replaced", "old", n.ID, "new", id)
		old := NormalizeNoteID(n.ID)
		n.ID = id
		repaired = true
		return old, nil
	}

	for _, n := range snap.Active {
		if strings.TrimSpace(n.Content) == "" {
			log.Warn(ctx, "dropping active note without content", "id", n.ID)
			repaired = true
			continue
		}
		if _, err := fixID(&n); err != nil {
			return nil, false, err
		}
		if _, dup := st.active[n.ID]; dup {
			log.Warn(ctx, "dropping duplicate active note", "id", n.ID)
			repaired = true
			continue
		}
		if !IsValidDatestamp(n.Datestamp) {
			n.Datestamp = fallbackDatestamp(n, s.stamp())
			repaired = true
		}
		if n.DeletedAt != nil {
			n.DeletedAt = nil
			repaired = true
		}
		st.active[n.ID] = n
	}

	replaced := map[string]string{}
	for _, n := range snap.RecycleTier1 {
		old, err := fixID(&n)
		if err != nil {
			return nil, false, err
		}
		if old != "" {
			replaced[old] = n.ID
		}
		if _, inActive := st.active[n.ID]; inActive {
			log.Warn(ctx, "note in both active and recycle bin, keeping active copy", "id", n.ID)
			repaired = true
			continue
		}
		if _, dup := st.tier1[n.ID]; dup {
			repaired = true
			continue
		}
		if n.DeletedAt == nil {
			d := n.UpdatedAt
			if d.IsZero() {
				d = s.stamp()
			}
			n.DeletedAt = &d
			repaired = true
		}
		st.tier1[n.ID] = n
	}

	for _, raw := range snap.RecycleTier2 {
		id := NormalizeNoteID(raw)
		if id == "" {
			continue
		}
		if id != raw {
			repaired = true
		}
		st.tier2[id] = struct{}{}
	}
	for _, raw := range snap.DeletedIDs {
		id := NormalizeNoteID(raw)
		if newID, ok := replaced[id]; ok {
			id = newID
		}
		if id == "" {
			continue
		}
		if id != raw {
			repaired = true
		}
		st.deleted[id] = struct{}{}
	}
	for _, id := range replaced {
		st.deleted[id] = struct{}{}
	}

	return st, repaired, nil
}

func fallbackDatestamp(n models.Note, now time.Time) string {
	if !n.CreatedAt.IsZero() {
		return n.CreatedAt.UTC().Format(models.DateLayout)
	}
	return now.Format(models.DateLayout)
}

// Persist writes all four buckets to local storage.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return ErrNotLoaded
	}
	return s.commit(ctx, s.st)
}

// commit persists next and makes it the current state. On failure the
// current state is left as it was.
func (s *Store) commit(ctx context.Context, next *state) error {
	if err := s.storage.SaveSnapshot(ctx, s.userKey, next.snapshot()); err != nil {
		s.log.Error(ctx, "persist notes failed", "user", s.userKey, "error", err)
		return fmt.Errorf("persist notes: %w", err)
	}
	s.st = next
	return nil
}

func (s *Store) Create(ctx context.Context, in models.NoteInput) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return models.Note{}, ErrNotLoaded
	}
	return s.create(ctx, in)
}

func (s *Store) create(ctx context.Context, in models.NoteInput) (models.Note, error) {
	in, err := validateInput(in)
	if err != nil {
		return models.Note{}, err
	}

	id, err := s.newID()
	if err != nil {
		return models.Note{}, fmt.Errorf("generate note id: %w", err)
	}
	if s.st.known(id) {
		return models.Note{}, fmt.Errorf("generated note id %s already in use", id)
	}

	now := s.stamp()
	n := models.Note{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		Datestamp: in.Datestamp,
		CreatedAt: now,
		UpdatedAt: now,
	}

	next := s.st.clone()
	next.active[id] = n
	if err := s.commit(ctx, next); err != nil {
		return models.Note{}, err
	}
	return n.Clone(), nil
}

func (s *Store) Update(ctx context.Context, id string, in models.NoteInput) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return models.Note{}, ErrNotLoaded
	}
	return s.update(ctx, id, in)
}

func (s *Store) update(ctx context.Context, id string, in models.NoteInput) (models.Note, error) {
	in, err := validateInput(in)
	if err != nil {
		return models.Note{}, err
	}

	id = NormalizeNoteID(id)
	cur, ok := s.st.active[id]
	if !ok {
		return models.Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	cur.Title = in.Title
	cur.Content = in.Content
	cur.Datestamp = in.Datestamp
	cur.UpdatedAt = s.stamp()

	next := s.st.clone()
	next.active[id] = cur
	if err := s.commit(ctx, next); err != nil {
		return models.Note{}, err
	}
	return cur.Clone(), nil
}

// Save is the explicit user save: an empty id creates a note, any other id
// updates the Active note with that id.
func (s *Store) Save(ctx context.Context, id string, in models.NoteInput) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return models.Note{}, ErrNotLoaded
	}
	if strings.TrimSpace(id) == "" {
		return s.create(ctx, in)
	}
	return s.update(ctx, id, in)
}

// Delete moves an Active note to the recycle bin.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return ErrNotLoaded
	}

	id = NormalizeNoteID(id)
	n, ok := s.st.active[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	now := s.stamp()
	n.DeletedAt = &now

	next := s.st.clone()
	delete(next.active, id)
	next.tier1[id] = n
	next.deleted[id] = struct{}{}
	return s.commit(ctx, next)
}

// Purge permanently deletes recycle-bin notes, leaving a tombstone for each.
// Ids not in the recycle bin are skipped.
func (s *Store) Purge(ctx context.Context, ids ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return 0, ErrNotLoaded
	}
	return s.purge(ctx, ids)
}

func (s *Store) purge(ctx context.Context, ids []string) (int, error) {
	next := s.st.clone()
	n := 0
	for _, id := range ids {
		id = NormalizeNoteID(id)
		if _, ok := next.tier1[id]; !ok {
			continue
		}
		delete(next.tier1, id)
		next.tier2[id] = struct{}{}
		n++
	}
	if n == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return n, nil
}

// EmptyRecycleBin purges every recycle-bin note.
func (s *Store) EmptyRecycleBin(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return 0, ErrNotLoaded
	}
	ids := make([]string, 0, len(s.st.tier1))
	for id := range s.st.tier1 {
		ids = append(ids, id)
	}
	return s.purge(ctx, ids)
}

// Revive moves recycle-bin notes back to Active. Tombstoned ids and ids
// not in the recycle bin are skipped.
func (s *Store) Revive(ctx context.Context, ids ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st == nil {
		return 0, ErrNotLoaded
	}

	next := s.st.clone()
	n := 0
	for _, id := range ids {
		id = NormalizeNoteID(id)
		note, ok := next.tier1[id]
		if !ok || next.tier2.has(id) {
			continue
		}
		note.DeletedAt = nil
		delete(next.tier1, id)
		delete(next.deleted, id)
		next.active[id] = note
		n++
	}
	if n == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return n, nil
}
