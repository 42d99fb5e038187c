package common

// AccessTokenHeaderName is the HTTP header used to carry the access token on
// outbound API requests ("Authorization: Bearer <token>").
const AccessTokenHeaderName = "Authorization"

// DirectUploadLimit is the file size (bytes) at and above which uploads go
// through the multipart strategy instead of a single presigned PUT.
const DirectUploadLimit int64 = 500 * 1024 * 1024

// MultipartPartSize is the part size (bytes) the backend hands out for
// multipart upload sessions. S3 requires at least 5 MiB per part.
const MultipartPartSize int64 = 100 * 1024 * 1024
