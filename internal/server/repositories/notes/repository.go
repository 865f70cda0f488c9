// Package notes stores the hosted copy of every user's notes.
package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Note, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	InsertBatch(ctx context.Context, notes []models.Note) (int64, error)
}
