// Package api is the REST client for the media backend. It implements
// uploader.Backend so the upload queue can plan, complete and register
// uploads over HTTP.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cachao/media/internal/common"
	"github.com/cachao/media/internal/uploader"
)

// Client talks to the media backend REST API using a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// doJSON sends body as JSON and decodes the response into out (when out is
// non-nil). Backend errors arrive as {"error": "..."} and are surfaced with
// the HTTP status attached.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set(common.AccessTokenHeaderName, "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var er errorResponse
		if err := sonic.Unmarshal(data, &er); err == nil && er.Error != "" {
			return fmt.Errorf("server returned %s: %s", resp.Status, er.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out != nil && len(data) > 0 {
		if err := sonic.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type planUploadRequest struct {
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type,omitempty"`
	EventID  string `json:"event_id"`
	AlbumID  string `json:"album_id,omitempty"`
}

type planUploadResponse struct {
	Strategy  string   `json:"strategy"`
	ObjectKey string   `json:"object_key"`
	PutURL    string   `json:"put_url"`
	UploadID  string   `json:"upload_id"`
	PartSize  int64    `json:"part_size"`
	PartURLs  []string `json:"part_urls"`
}

func (c *Client) RequestUploadPlan(ctx context.Context, req uploader.PlanRequest) (*uploader.Plan, error) {
	var resp planUploadResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/uploads/plan", planUploadRequest{
		FileName: req.FileName,
		FileSize: req.FileSize,
		MimeType: req.MimeType,
		EventID:  req.EventID,
		AlbumID:  req.AlbumID,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &uploader.Plan{
		Strategy:  uploader.Strategy(resp.Strategy),
		ObjectKey: resp.ObjectKey,
		PutURL:    resp.PutURL,
		UploadID:  resp.UploadID,
		PartSize:  resp.PartSize,
		PartURLs:  resp.PartURLs,
	}, nil
}

type completedPartDTO struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
}

type completeUploadRequest struct {
	ObjectKey string             `json:"object_key"`
	UploadID  string             `json:"upload_id"`
	Parts     []completedPartDTO `json:"parts"`
}

func (c *Client) CompleteMultipart(ctx context.Context, objectKey, uploadID string, parts []uploader.CompletedPart) error {
	dto := completeUploadRequest{ObjectKey: objectKey, UploadID: uploadID}
	for _, p := range parts {
		dto.Parts = append(dto.Parts, completedPartDTO{PartNumber: p.PartNumber, ETag: p.ETag})
	}
	return c.doJSON(ctx, http.MethodPost, "/api/v1/uploads/complete", dto, nil)
}

type registerVideoRequest struct {
	AlbumID    string `json:"album_id,omitempty"`
	Title      string `json:"title"`
	StorageKey string `json:"storage_key"`
	Size       int64  `json:"size"`
}

type videoResponse struct {
	ID         string `json:"id"`
	StorageKey string `json:"storage_key"`
}

func (c *Client) RegisterUpload(ctx context.Context, reg uploader.Registration) (*uploader.Media, error) {
	var resp videoResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/events/"+reg.EventID+"/videos", registerVideoRequest{
		AlbumID:    reg.AlbumID,
		Title:      reg.Title,
		StorageKey: reg.ObjectKey,
		Size:       reg.Size,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &uploader.Media{ID: resp.ID, ObjectKey: resp.StorageKey}, nil
}

type createAlbumRequest struct {
	Name string `json:"name"`
}

type albumResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) CreateAlbum(ctx context.Context, eventID, name string) (*uploader.Album, error) {
	var resp albumResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/albums", createAlbumRequest{Name: name}, &resp)
	if err != nil {
		return nil, err
	}
	return &uploader.Album{ID: resp.ID, Name: resp.Name}, nil
}
