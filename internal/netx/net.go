// Package netx implements the HTTP transport for presigned uploads: a single
// PUT with context cancellation, upload-progress reporting and ETag capture.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPUploader performs presigned PUT requests with a shared http.Client.
type HTTPUploader struct {
	client *http.Client
}

func NewHTTPUploader() *HTTPUploader {
	return &HTTPUploader{client: &http.Client{}}
}

// progressReader counts bytes as they are read by the HTTP client and
// reports the cumulative total to the callback.
type progressReader struct {
	r    io.Reader
	sent int64
	cb   func(sent int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.cb != nil {
			p.cb(p.sent)
		}
	}
	return n, err
}

// Put streams body to the presigned URL. size must match the payload length
// exactly (presigned requests are signed without chunked encoding). The
// returned etag has surrounding quotes stripped.
func (u *HTTPUploader) Put(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress func(sent int64)) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, &progressReader{r: body, cb: onProgress})
	if err != nil {
		return "", err
	}
	req.ContentLength = size
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}

	return strings.Trim(resp.Header.Get("ETag"), `"`), nil
}
