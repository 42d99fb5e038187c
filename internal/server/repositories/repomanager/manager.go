package repomanager

import (
	"context"
	"database/sql"

	"github.com/cachao/media/internal/dbx"
	"github.com/cachao/media/internal/server/repositories/albums"
	"github.com/cachao/media/internal/server/repositories/videos"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Albums(db dbx.DBTX) albums.Repository
	Videos(db dbx.DBTX) videos.Repository
}
