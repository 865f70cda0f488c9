package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

const datestampLayout = "2006-01-02"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Note, error) {
	query :=
		`SELECT id, user_id, title, content, datestamp, is_deleted, created_at, updated_at
		 FROM notes
		 WHERE user_id = $1
		 ORDER BY datestamp DESC, updated_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Note{}
	for rows.Next() {
		var (
			n         models.Note
			datestamp time.Time
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &datestamp, &n.IsDeleted, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		n.Datestamp = datestamp.Format(datestampLayout)
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// InsertBatch inserts rows one statement at a time; callers wanting
// all-or-nothing run it inside dbx.WithTx.
func (r *PostgresRepository) InsertBatch(ctx context.Context, notes []models.Note) (int64, error) {
	query :=
		`INSERT INTO notes (id, user_id, title, content, datestamp, is_deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	var inserted int64
	for _, n := range notes {
		res, err := r.db.ExecContext(ctx, query,
			n.ID, n.UserID, n.Title, n.Content, n.Datestamp, n.IsDeleted, n.CreatedAt, n.UpdatedAt)
		if err != nil {
			return inserted, fmt.Errorf("db error: insert note %s: %w", n.ID, err)
		}
		c, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("db error: %w", err)
		}
		inserted += c
	}
	return inserted, nil
}
