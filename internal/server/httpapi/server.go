// Package httpapi exposes the media backend over REST. All routes sit under
// /api/v1 and require a bearer JWT.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/cachao/media/internal/logging"
	sc "github.com/cachao/media/internal/server/config"
	"github.com/cachao/media/internal/server/models"
	"github.com/gin-gonic/gin"
)

// MediaService is the business logic the handlers delegate to.
type MediaService interface {
	PlanUpload(ctx context.Context, req *models.UploadPlanRequest) (*models.UploadPlan, error)
	CompleteUpload(ctx context.Context, objectKey, uploadID string, parts []models.UploadPart) error
	RegisterVideo(ctx context.Context, video *models.Video) (*models.Video, error)
	CreateAlbum(ctx context.Context, eventID, name string) (*models.Album, error)
	ListAlbums(ctx context.Context, eventID string) ([]*models.Album, error)
	ListVideos(ctx context.Context, eventID string) ([]*models.Video, error)
}

type Server struct {
	config  *sc.Config
	service MediaService
	logger  logging.Logger
	router  *gin.Engine
}

func NewServer(config *sc.Config, service MediaService, logger logging.Logger) *Server {
	s := &Server{
		config:  config,
		service: service,
		logger:  logger.With("module", "httpapi"),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api/v1", s.authMiddleware())
	api.POST("/uploads/plan", s.handlePlanUpload)
	api.POST("/uploads/complete", s.handleCompleteUpload)
	api.POST("/events/:eventID/albums", s.handleCreateAlbum)
	api.GET("/events/:eventID/albums", s.handleListAlbums)
	api.POST("/events/:eventID/videos", s.handleRegisterVideo)
	api.GET("/events/:eventID/videos", s.handleListVideos)

	s.router = r
	return s
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.EndpointAddr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting http server", "addr", s.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
