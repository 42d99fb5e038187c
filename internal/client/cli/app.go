// Package cli wires the upload queue into a one-shot command line run:
// enqueue the configured files, dispatch them against the configured event,
// print per-job results and persist them to the local history.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cachao/media/internal/client/api"
	"github.com/cachao/media/internal/client/config"
	"github.com/cachao/media/internal/client/history"
	"github.com/cachao/media/internal/filex"
	"github.com/cachao/media/internal/logging"
	"github.com/cachao/media/internal/netx"
	"github.com/cachao/media/internal/uploader"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager *uploader.Manager
	history history.Repository
	db      *sql.DB
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	slogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger := logging.NewSlogLogger(slogger)

	repo, db, err := history.InitDatabase(ctx, c.HistoryDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing history database: %w", err)
	}

	backend := api.NewClient(c.ServerBaseURL, c.AccessToken)
	transport := netx.NewHTTPUploader()

	manager := uploader.NewManager(backend, transport, logger,
		uploader.WithMaxConcurrent(c.MaxConcurrent))

	return &App{
		config:  c,
		logger:  logger,
		manager: manager,
		history: repo,
		db:      db,
		out:     os.Stdout,
	}, nil
}

// Run uploads the configured files and reports the outcome. It returns an
// error when nothing could be enqueued or when any job finished in error, so
// the process exit code reflects the batch result.
func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	if len(a.config.Files) == 0 {
		return errors.New("no files to upload")
	}

	var sources []uploader.Source
	for _, path := range a.config.Files {
		src, err := filex.NewDiskSource(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		sources = append(sources, src)
	}
	a.manager.Enqueue(sources...)

	err := a.manager.DispatchAll(ctx, uploader.Target{
		EventID:      a.config.EventID,
		AlbumID:      a.config.AlbumID,
		NewAlbumName: a.config.AlbumName,
	})
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	failed := 0
	for _, j := range a.manager.Jobs() {
		a.printJob(j)
		a.recordJob(ctx, j)
		if j.Status != uploader.StatusSuccess {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d upload(s) failed", failed)
	}
	return nil
}

func (a *App) printJob(j uploader.JobView) {
	switch j.Status {
	case uploader.StatusSuccess:
		fmt.Fprintf(a.out, "ok    %s (%d bytes) -> %s\n", j.Name, j.Size, j.Result.StorageKey)
	case uploader.StatusError:
		fmt.Fprintf(a.out, "fail  %s: %s\n", j.Name, j.Error)
	default:
		fmt.Fprintf(a.out, "%-5s %s\n", j.Status, j.Name)
	}
}

func (a *App) recordJob(ctx context.Context, j uploader.JobView) {
	rec := &history.Record{
		ID:       j.ID,
		FileName: j.Name,
		Size:     j.Size,
		Status:   string(j.Status),
		Error:    j.Error,
		EventID:  a.config.EventID,
		AlbumID:  a.config.AlbumID,
	}
	if j.Result != nil {
		rec.MediaID = j.Result.MediaID
		rec.StorageKey = j.Result.StorageKey
	}
	if err := a.history.Add(ctx, rec); err != nil {
		a.logger.Error(ctx, "error saving history record", "job_id", j.ID, "error", err)
	}
}
