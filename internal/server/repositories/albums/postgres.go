package albums

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cachao/media/internal/common"
	"github.com/cachao/media/internal/dbx"
	"github.com/cachao/media/internal/server/models"
)

// PostgresRepository implements album storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an album row. Returns ErrorAlreadyExists when an album with
// the same name already exists inside the event.
func (r *PostgresRepository) Create(ctx context.Context, album *models.Album) (*models.Album, error) {
	query := `
		INSERT INTO albums (id, event_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, name) DO NOTHING
		RETURNING id, event_id, name, created_at;
	`
	result := &models.Album{}
	err := r.db.QueryRowContext(ctx, query, album.ID, album.EventID, album.Name).
		Scan(&result.ID, &result.EventID, &result.Name, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// GetByID returns the album with the given id, or ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Album, error) {
	query := `SELECT id, event_id, name, created_at FROM albums WHERE id=$1`

	result := &models.Album{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&result.ID, &result.EventID, &result.Name, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select album: %w", err)
	}
	return result, nil
}

// ListByEvent returns all albums of an event, newest first.
func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID string) ([]*models.Album, error) {
	query := `SELECT id, event_id, name, created_at FROM albums WHERE event_id=$1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to select albums: %w", err)
	}
	defer rows.Close()

	var result []*models.Album
	for rows.Next() {
		var item models.Album
		if err := rows.Scan(&item.ID, &item.EventID, &item.Name, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
