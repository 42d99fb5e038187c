// Package events publishes media lifecycle notifications to Kafka so that
// downstream consumers (feeds, thumbnailers) learn about new uploads.
package events

import (
	"context"
	"time"
)

// MediaRegistered is emitted after a video row is committed to the catalog.
type MediaRegistered struct {
	MediaID    string    `json:"media_id"`
	EventID    string    `json:"event_id"`
	AlbumID    string    `json:"album_id,omitempty"`
	Title      string    `json:"title"`
	StorageKey string    `json:"storage_key"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	PublishMediaRegistered(ctx context.Context, ev MediaRegistered) error
	Close() error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishMediaRegistered(ctx context.Context, ev MediaRegistered) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
