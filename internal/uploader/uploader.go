// Package uploader implements the upload queue for event media: every
// selected file becomes an independently tracked job that is dispatched in
// bounded batches, streamed to object storage through a presigned-URL plan
// obtained from the backend, and registered as a media record on success.
//
// The queue is framework-agnostic: callers observe it through snapshots
// (Jobs) or an optional change callback, and drive it through Enqueue,
// DispatchAll, Cancel, Retry and friends. All status transitions follow the
// job state machine:
//
//	pending --dispatch--> uploading --(transfer+register ok)--> success
//	pending --dispatch--> uploading --(transfer or register fail)--> error
//	uploading --cancel--> error (unless success already observed)
//	error --retry--> pending --> uploading --> ...
package uploader

import (
	"context"
	"io"
)

// Strategy selects how a job's bytes reach object storage.
type Strategy string

const (
	// StrategyDirect is a single presigned PUT covering the whole file.
	StrategyDirect Strategy = "direct"
	// StrategyMultipart is a provider-assisted multipart session for large
	// files: one presigned URL per part plus a completion call.
	StrategyMultipart Strategy = "multipart"
)

// Target is the event/album pairing all jobs of one dispatch are associated
// with. Either AlbumID refers to an existing album, or NewAlbumName asks the
// backend to create one before any job leaves pending.
type Target struct {
	EventID      string
	AlbumID      string
	NewAlbumName string
}

// PlanRequest describes one file to the backend so it can choose a strategy
// and issue presigned URLs.
type PlanRequest struct {
	FileName string
	FileSize int64
	MimeType string
	EventID  string
	AlbumID  string
}

// Plan is the backend's answer to a PlanRequest. Direct plans carry PutURL;
// multipart plans carry UploadID, PartSize and one presigned URL per part.
type Plan struct {
	Strategy  Strategy
	ObjectKey string
	PutURL    string
	UploadID  string
	PartSize  int64
	PartURLs  []string
}

// CompletedPart pairs a part number with the ETag the storage returned for it.
type CompletedPart struct {
	PartNumber int
	ETag       string
}

// Registration is the metadata persisted once bytes have landed in storage.
type Registration struct {
	EventID   string
	AlbumID   string
	ObjectKey string
	Title     string
	Size      int64
}

// Media is the record the backend created for a registered upload.
type Media struct {
	ID        string
	ObjectKey string
}

// Album is a media album within an event.
type Album struct {
	ID   string
	Name string
}

// Backend is the REST backend contract the queue consumes. Implementations
// live in internal/client/api; tests substitute fakes.
type Backend interface {
	RequestUploadPlan(ctx context.Context, req PlanRequest) (*Plan, error)
	CompleteMultipart(ctx context.Context, objectKey, uploadID string, parts []CompletedPart) error
	RegisterUpload(ctx context.Context, reg Registration) (*Media, error)
	CreateAlbum(ctx context.Context, eventID, name string) (*Album, error)
}

// Transport performs one presigned PUT. onProgress, when non-nil, receives
// the cumulative byte count sent so far. Cancellation propagates through ctx.
type Transport interface {
	Put(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress func(sent int64)) (etag string, err error)
}

// Source is one selected file: its metadata is captured at enqueue time and
// immutable for the job's lifetime; Open is called once per upload attempt.
type Source interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadCloser, error)
}
