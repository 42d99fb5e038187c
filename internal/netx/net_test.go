package netx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPUploader_Put(t *testing.T) {
	file := []byte("hello, s3")

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT string
		var gotMethod string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			body, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			gotBody = body
			w.Header().Set("ETag", `"abc123"`)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		u := NewHTTPUploader()
		etag, err := u.Put(context.Background(), ts.URL+"/some/presigned?X-Amz-Signature=abc",
			bytes.NewReader(file), int64(len(file)), "video/mp4", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if etag != "abc123" {
			t.Fatalf("etag = %q, want abc123", etag)
		}
		if gotMethod != http.MethodPut {
			t.Fatalf("method = %q, want PUT", gotMethod)
		}
		if gotCT != "video/mp4" {
			t.Fatalf("Content-Type = %q, want video/mp4", gotCT)
		}
		if !bytes.Equal(gotBody, file) {
			t.Fatalf("body = %q, want %q", string(gotBody), string(file))
		}
	})

	t.Run("progress callback sees cumulative bytes", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		var last int64
		u := NewHTTPUploader()
		_, err := u.Put(context.Background(), ts.URL, bytes.NewReader(file), int64(len(file)), "", func(sent int64) {
			if sent < last {
				t.Errorf("progress went backwards: %d after %d", sent, last)
			}
			last = sent
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if last != int64(len(file)) {
			t.Fatalf("final progress = %d, want %d", last, len(file))
		}
	})

	t.Run("non-200 -> error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden) // 403
		}))
		defer ts.Close()

		u := NewHTTPUploader()
		_, err := u.Put(context.Background(), ts.URL, bytes.NewReader(file), int64(len(file)), "", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "upload failed: 403") {
			t.Fatalf("error = %q, want to contain 403", err.Error())
		}
	})

	t.Run("cancelled context -> context.Canceled", func(t *testing.T) {
		blocked := make(chan struct{})
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-blocked
		}))
		defer ts.Close()
		defer close(blocked)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		u := NewHTTPUploader()
		_, err := u.Put(ctx, ts.URL, bytes.NewReader(file), int64(len(file)), "", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	})
}
