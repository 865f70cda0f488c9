// Package localstore keeps the four per-user note records in the client's
// SQLite metadata table. Each record is a JSON array read and written
// wholesale.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
)

// Bucket names a logical record; the stored key is "<bucket>_<user>".
type Bucket string

const (
	BucketActive       Bucket = "notes"
	BucketDeletedIDs   Bucket = "notes_deletedIds"
	BucketRecycleTier1 Bucket = "notes_recycleBin2"
	BucketRecycleTier2 Bucket = "notes_recycleBin"
)

// Buckets lists every record kept per user.
var Buckets = []Bucket{BucketActive, BucketDeletedIDs, BucketRecycleTier1, BucketRecycleTier2}

func Key(userKey string, b Bucket) string {
	return string(b) + "_" + userKey
}

var ErrCorruptRecord = errors.New("corrupt local record")

// CorruptRecordError reports a record that exists but does not decode.
type CorruptRecordError struct {
	Key string
	Err error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt local record %s: %v", e.Key, e.Err)
}

func (e *CorruptRecordError) Unwrap() []error { return []error{ErrCorruptRecord, e.Err} }

// Snapshot is the full local state of one user.
type Snapshot struct {
	Active       []models.Note
	RecycleTier1 []models.Note
	RecycleTier2 []string
	DeletedIDs   []string
}

type Store struct {
	db   *sql.DB
	repo metadata.Repository
}

func New(db *sql.DB) *Store {
	return &Store{db: db, repo: metadata.NewSQLiteRepository(db)}
}

func loadRecord[T any](ctx context.Context, repo metadata.Repository, key string) ([]T, error) {
	raw, err := repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []T{}, &CorruptRecordError{Key: key, Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func saveRecord[T any](ctx context.Context, repo metadata.Repository, key string, v []T) error {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return repo.Set(ctx, key, b)
}

func (s *Store) LoadActive(ctx context.Context, userKey string) ([]models.Note, error) {
	return loadRecord[models.Note](ctx, s.repo, Key(userKey, BucketActive))
}

func (s *Store) SaveActive(ctx context.Context, userKey string, notes []models.Note) error {
	return saveRecord(ctx, s.repo, Key(userKey, BucketActive), notes)
}

func (s *Store) LoadRecycleTier1(ctx context.Context, userKey string) ([]models.Note, error) {
	return loadRecord[models.Note](ctx, s.repo, Key(userKey, BucketRecycleTier1))
}

func (s *Store) SaveRecycleTier1(ctx context.Context, userKey string, notes []models.Note) error {
	return saveRecord(ctx, s.repo, Key(userKey, BucketRecycleTier1), notes)
}

func (s *Store) LoadRecycleTier2(ctx context.Context, userKey string) ([]string, error) {
	return loadRecord[string](ctx, s.repo, Key(userKey, BucketRecycleTier2))
}

func (s *Store) SaveRecycleTier2(ctx context.Context, userKey string, ids []string) error {
	return saveRecord(ctx, s.repo, Key(userKey, BucketRecycleTier2), ids)
}

func (s *Store) LoadDeletedIDs(ctx context.Context, userKey string) ([]string, error) {
	return loadRecord[string](ctx, s.repo, Key(userKey, BucketDeletedIDs))
}

func (s *Store) SaveDeletedIDs(ctx context.Context, userKey string, ids []string) error {
	return saveRecord(ctx, s.repo, Key(userKey, BucketDeletedIDs), ids)
}

// LoadSnapshot reads all four records. Corrupt records come back empty and
// are reported together in an error matching ErrCorruptRecord; any other
// error means the backend failed and the snapshot is unusable.
func (s *Store) LoadSnapshot(ctx context.Context, userKey string) (Snapshot, error) {
	var (
		snap    Snapshot
		corrupt []error
		err     error
	)

	keep := func(e error) error {
		var ce *CorruptRecordError
		if errors.As(e, &ce) {
			corrupt = append(corrupt, e)
			return nil
		}
		return e
	}

	if snap.Active, err = s.LoadActive(ctx, userKey); keep(err) != nil {
		return Snapshot{}, err
	}
	if snap.RecycleTier1, err = s.LoadRecycleTier1(ctx, userKey); keep(err) != nil {
		return Snapshot{}, err
	}
	if snap.RecycleTier2, err = s.LoadRecycleTier2(ctx, userKey); keep(err) != nil {
		return Snapshot{}, err
	}
	if snap.DeletedIDs, err = s.LoadDeletedIDs(ctx, userKey); keep(err) != nil {
		return Snapshot{}, err
	}

	return snap, errors.Join(corrupt...)
}

// SaveSnapshot writes all four records in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, userKey string, snap Snapshot) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := saveRecord(ctx, repo, Key(userKey, BucketActive), snap.Active); err != nil {
			return err
		}
		if err := saveRecord(ctx, repo, Key(userKey, BucketRecycleTier1), snap.RecycleTier1); err != nil {
			return err
		}
		if err := saveRecord(ctx, repo, Key(userKey, BucketRecycleTier2), snap.RecycleTier2); err != nil {
			return err
		}
		return saveRecord(ctx, repo, Key(userKey, BucketDeletedIDs), snap.DeletedIDs)
	})
}

// Forget removes every record of userKey.
func (s *Store) Forget(ctx context.Context, userKey string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, b := range Buckets {
			if err := repo.Delete(ctx, Key(userKey, b)); err != nil {
				return err
			}
		}
		return nil
	})
}
