package httpapi

import (
	"errors"
	"net/http"

	"github.com/cachao/media/internal/common"
	"github.com/cachao/media/internal/server/models"
	"github.com/gin-gonic/gin"
)

type planUploadRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileSize int64  `json:"file_size" binding:"required"`
	MimeType string `json:"mime_type"`
	EventID  string `json:"event_id" binding:"required"`
	AlbumID  string `json:"album_id"`
}

type planUploadResponse struct {
	Strategy  string   `json:"strategy"`
	ObjectKey string   `json:"object_key"`
	PutURL    string   `json:"put_url,omitempty"`
	UploadID  string   `json:"upload_id,omitempty"`
	PartSize  int64    `json:"part_size,omitempty"`
	PartURLs  []string `json:"part_urls,omitempty"`
}

type completeUploadRequest struct {
	ObjectKey string `json:"object_key" binding:"required"`
	UploadID  string `json:"upload_id" binding:"required"`
	Parts     []struct {
		PartNumber int32  `json:"part_number"`
		ETag       string `json:"etag"`
	} `json:"parts" binding:"required"`
}

type createAlbumRequest struct {
	Name string `json:"name" binding:"required"`
}

type albumResponse struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

type registerVideoRequest struct {
	AlbumID    string `json:"album_id"`
	Title      string `json:"title" binding:"required"`
	StorageKey string `json:"storage_key" binding:"required"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
}

type videoResponse struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	AlbumID    string `json:"album_id,omitempty"`
	Title      string `json:"title"`
	StorageKey string `json:"storage_key"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
}

// errStatus maps service errors onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handlePlanUpload(c *gin.Context) {
	var req planUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := s.service.PlanUpload(c.Request.Context(), &models.UploadPlanRequest{
		FileName: req.FileName,
		FileSize: req.FileSize,
		MimeType: req.MimeType,
		EventID:  req.EventID,
		AlbumID:  req.AlbumID,
	})
	if err != nil {
		s.logger.Error(c.Request.Context(), "plan upload failed", "error", err)
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, planUploadResponse{
		Strategy:  plan.Strategy,
		ObjectKey: plan.ObjectKey,
		PutURL:    plan.PutURL,
		UploadID:  plan.UploadID,
		PartSize:  plan.PartSize,
		PartURLs:  plan.PartURLs,
	})
}

func (s *Server) handleCompleteUpload(c *gin.Context) {
	var req completeUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parts := make([]models.UploadPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, models.UploadPart{PartNumber: p.PartNumber, ETag: p.ETag})
	}

	if err := s.service.CompleteUpload(c.Request.Context(), req.ObjectKey, req.UploadID, parts); err != nil {
		s.logger.Error(c.Request.Context(), "complete upload failed", "key", req.ObjectKey, "error", err)
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateAlbum(c *gin.Context) {
	var req createAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	album, err := s.service.CreateAlbum(c.Request.Context(), c.Param("eventID"), req.Name)
	if err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, albumResponse{ID: album.ID, EventID: album.EventID, Name: album.Name})
}

func (s *Server) handleListAlbums(c *gin.Context) {
	albums, err := s.service.ListAlbums(c.Request.Context(), c.Param("eventID"))
	if err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]albumResponse, 0, len(albums))
	for _, a := range albums {
		resp = append(resp, albumResponse{ID: a.ID, EventID: a.EventID, Name: a.Name})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRegisterVideo(c *gin.Context) {
	var req registerVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := s.service.RegisterVideo(c.Request.Context(), &models.Video{
		EventID:    c.Param("eventID"),
		AlbumID:    req.AlbumID,
		Title:      req.Title,
		StorageKey: req.StorageKey,
		MimeType:   req.MimeType,
		Size:       req.Size,
	})
	if err != nil {
		s.logger.Error(c.Request.Context(), "register video failed", "error", err)
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, videoResponse{
		ID:         video.ID,
		EventID:    video.EventID,
		AlbumID:    video.AlbumID,
		Title:      video.Title,
		StorageKey: video.StorageKey,
		MimeType:   video.MimeType,
		Size:       video.Size,
	})
}

func (s *Server) handleListVideos(c *gin.Context) {
	videos, err := s.service.ListVideos(c.Request.Context(), c.Param("eventID"))
	if err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		resp = append(resp, videoResponse{
			ID:         v.ID,
			EventID:    v.EventID,
			AlbumID:    v.AlbumID,
			Title:      v.Title,
			StorageKey: v.StorageKey,
			MimeType:   v.MimeType,
			Size:       v.Size,
		})
	}
	c.JSON(http.StatusOK, resp)
}
