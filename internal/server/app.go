// Package server initializes and runs the media backend: database, object
// storage presigning, event publishing and the HTTP API, with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/cachao/media/internal/logging"
	"github.com/cachao/media/internal/server/config"
	"github.com/cachao/media/internal/server/events"
	"github.com/cachao/media/internal/server/httpapi"
	"github.com/cachao/media/internal/server/repositories/repomanager"
	"github.com/cachao/media/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	publisher    events.Publisher
	mediaService *services.MediaService
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if c.KafkaBroker != "" {
		publisher = events.NewKafkaPublisher(c.KafkaBroker, c.KafkaTopic)
	}

	ms := services.NewMediaService(db, rm, c, publisher, logger)

	return &App{config: c, logger: logger, db: db, publisher: publisher, mediaService: ms}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config, app.mediaService, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.publisher.Close(); err != nil {
		app.logger.Error(ctx, "error closing publisher", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
