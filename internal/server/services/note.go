package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// NoteService serves the hosted copy of a user's notes. Replacing that copy
// (delete-all, insert) is reserved for the configured backup roles.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cfg         *config.Config
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *NoteService {
	return &NoteService{db: db, repomanager: m, cfg: cfg}
}

// List returns every hosted note of userID, deleted ones included.
func (s *NoteService) List(ctx context.Context, userID string) ([]models.Note, error) {
	if userID == "" {
		return nil, common.ErrorValidation
	}
	notes, err := s.repomanager.Notes(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return notes, nil
}

// DeleteAll drops the hosted notes of userID and reports how many went.
func (s *NoteService) DeleteAll(ctx context.Context, userID, role string) (int64, error) {
	if userID == "" {
		return 0, common.ErrorValidation
	}
	if !s.cfg.CanBackup(role) {
		return 0, common.ErrorForbidden
	}
	n, err := s.repomanager.Notes(s.db).DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error deleting notes: %w", err)
	}
	return n, nil
}

// Insert stores notes for userID in one transaction. A note owned by
// somebody else yields common.ErrorForbidden and nothing is written.
func (s *NoteService) Insert(ctx context.Context, userID, role string, notes []models.Note) (int64, error) {
	if userID == "" {
		return 0, common.ErrorValidation
	}
	if !s.cfg.CanBackup(role) {
		return 0, common.ErrorForbidden
	}
	if len(notes) == 0 {
		return 0, nil
	}

	batch := make([]models.Note, len(notes))
	for i, n := range notes {
		if n.ID == "" {
			return 0, common.ErrorValidation
		}
		if n.UserID != "" && n.UserID != userID {
			return 0, common.ErrorForbidden
		}
		n.UserID = userID
		batch[i] = n
	}

	var inserted int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		inserted, err = s.repomanager.Notes(tx).InsertBatch(ctx, batch)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("error inserting notes: %w", err)
	}
	return inserted, nil
}
