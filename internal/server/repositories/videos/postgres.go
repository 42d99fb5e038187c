package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cachao/media/internal/common"
	"github.com/cachao/media/internal/dbx"
	"github.com/cachao/media/internal/server/models"
)

// PostgresRepository implements video storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a video row and returns the stored record.
func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	query := `
		INSERT INTO videos (id, event_id, album_id, title, storage_key, mime_type, size)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		RETURNING id, event_id, COALESCE(album_id, ''), title, storage_key, mime_type, size, created_at;
	`
	result := &models.Video{}
	err := r.db.QueryRowContext(ctx, query,
		video.ID, video.EventID, video.AlbumID, video.Title, video.StorageKey, video.MimeType, video.Size).
		Scan(&result.ID, &result.EventID, &result.AlbumID, &result.Title,
			&result.StorageKey, &result.MimeType, &result.Size, &result.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// GetByID returns the video with the given id, or ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT id, event_id, COALESCE(album_id, ''), title, storage_key, mime_type, size, created_at
		FROM videos WHERE id=$1`

	result := &models.Video{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&result.ID, &result.EventID, &result.AlbumID, &result.Title,
			&result.StorageKey, &result.MimeType, &result.Size, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select video: %w", err)
	}
	return result, nil
}

// ListByEvent returns all videos of an event, newest first.
func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID string) ([]*models.Video, error) {
	query := `SELECT id, event_id, COALESCE(album_id, ''), title, storage_key, mime_type, size, created_at
		FROM videos WHERE event_id=$1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to select videos: %w", err)
	}
	defer rows.Close()

	var result []*models.Video
	for rows.Next() {
		var item models.Video
		if err := rows.Scan(&item.ID, &item.EventID, &item.AlbumID, &item.Title,
			&item.StorageKey, &item.MimeType, &item.Size, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
