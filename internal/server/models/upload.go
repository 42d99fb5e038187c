package models

// UploadPlanRequest carries the file metadata and the target a client
// submits before transferring anything.
type UploadPlanRequest struct {
	FileName string
	FileSize int64
	MimeType string
	EventID  string
	AlbumID  string
}

// UploadPlan tells the client how to move the bytes. Strategy is either
// "direct" (single presigned PUT) or "multipart" (one presigned URL per
// part plus a completion call).
type UploadPlan struct {
	Strategy  string
	ObjectKey string
	PutURL    string
	UploadID  string
	PartSize  int64
	PartURLs  []string
}

// UploadPart identifies one completed part of a multipart upload.
type UploadPart struct {
	PartNumber int32
	ETag       string
}
