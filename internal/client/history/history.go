// Package history keeps a local record of finished upload jobs in sqlite so
// users can see what already reached the backend across CLI runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cachao/media/internal/client/migrations"
	"github.com/cachao/media/internal/dbx"
	"github.com/cachao/media/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Record is one finished upload job as it is persisted locally.
type Record struct {
	ID         string
	FileName   string
	Size       int64
	Status     string
	Error      string
	MediaID    string
	StorageKey string
	EventID    string
	AlbumID    string
	CreatedAt  time.Time
}

type Repository interface {
	Add(ctx context.Context, rec *Record) error
	List(ctx context.Context) ([]Record, error)
}

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add inserts a history row.
func (r *SQLiteRepository) Add(ctx context.Context, rec *Record) error {
	query := `INSERT INTO history (id, file_name, size, status, error, media_id, storage_key, event_id, album_id)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.FileName, rec.Size, rec.Status, rec.Error, rec.MediaID, rec.StorageKey, rec.EventID, rec.AlbumID)
	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}
	return nil
}

// List returns all history records, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	query := `select id, file_name, size, status, error, media_id, storage_key, event_id, album_id, created_at
		from history order by created_at desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var item Record
		if err := rows.Scan(&item.ID, &item.FileName, &item.Size, &item.Status, &item.Error,
			&item.MediaID, &item.StorageKey, &item.EventID, &item.AlbumID, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// RunMigrations applies the embedded history schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the sqlite database at dsn, migrates it and returns a
// ready repository together with the connection. A missing parent directory
// is created first so a DSN like "state/history.db" works on a fresh machine.
func InitDatabase(ctx context.Context, dsn string) (*SQLiteRepository, *sql.DB, error) {
	if dir := filepath.Dir(dsn); dir != "." {
		if _, err := filex.EnsureDir(dir); err != nil {
			return nil, nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return NewSQLiteRepository(db), db, nil
}
