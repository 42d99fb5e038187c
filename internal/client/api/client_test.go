package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cachao/media/internal/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestUploadPlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/uploads/plan", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "clip.mp4", req["file_name"])
		assert.Equal(t, "ev1", req["event_id"])
		assert.Equal(t, "a1", req["album_id"])

		json.NewEncoder(w).Encode(map[string]any{
			"strategy":   "multipart",
			"object_key": "events/ev1/k",
			"upload_id":  "u-1",
			"part_size":  100,
			"part_urls":  []string{"p1", "p2"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	plan, err := c.RequestUploadPlan(context.Background(), uploader.PlanRequest{
		FileName: "clip.mp4",
		FileSize: 150,
		MimeType: "video/mp4",
		EventID:  "ev1",
		AlbumID:  "a1",
	})
	require.NoError(t, err)

	assert.Equal(t, uploader.StrategyMultipart, plan.Strategy)
	assert.Equal(t, "events/ev1/k", plan.ObjectKey)
	assert.Equal(t, "u-1", plan.UploadID)
	assert.Equal(t, int64(100), plan.PartSize)
	assert.Equal(t, []string{"p1", "p2"}, plan.PartURLs)
}

func TestRequestUploadPlan_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"file size must be positive"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.RequestUploadPlan(context.Background(), uploader.PlanRequest{FileName: "x", EventID: "ev1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file size must be positive")
	assert.Contains(t, err.Error(), "400")
}

func TestCompleteMultipart(t *testing.T) {
	var got completeUploadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/uploads/complete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	err := c.CompleteMultipart(context.Background(), "events/ev1/k", "u-1", []uploader.CompletedPart{
		{PartNumber: 1, ETag: "e1"},
		{PartNumber: 2, ETag: "e2"},
	})
	require.NoError(t, err)

	assert.Equal(t, "events/ev1/k", got.ObjectKey)
	assert.Equal(t, "u-1", got.UploadID)
	require.Len(t, got.Parts, 2)
	assert.Equal(t, 2, got.Parts[1].PartNumber)
	assert.Equal(t, "e2", got.Parts[1].ETag)
}

func TestRegisterUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/events/ev1/videos", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "clip.mp4", req["title"])
		assert.Equal(t, "events/ev1/k", req["storage_key"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "v1", "storage_key": "events/ev1/k"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	media, err := c.RegisterUpload(context.Background(), uploader.Registration{
		EventID:   "ev1",
		ObjectKey: "events/ev1/k",
		Title:     "clip.mp4",
		Size:      9,
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", media.ID)
	assert.Equal(t, "events/ev1/k", media.ObjectKey)
}

func TestCreateAlbum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/events/ev1/albums", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "a1", "event_id": "ev1", "name": "Party"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	album, err := c.CreateAlbum(context.Background(), "ev1", "Party")
	require.NoError(t, err)
	assert.Equal(t, "a1", album.ID)
	assert.Equal(t, "Party", album.Name)
}

func TestCreateAlbum_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"missing bearer token"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.CreateAlbum(context.Background(), "ev1", "Party")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing bearer token")
}

func TestClient_ImplementsBackend(t *testing.T) {
	var _ uploader.Backend = NewClient("http://x", "t")
}
