package models

import "time"

// Video describes a registered media object. The payload itself lives in
// object storage under StorageKey; this row is the catalog entry.
type Video struct {
	ID         string
	EventID    string
	AlbumID    string
	Title      string
	StorageKey string
	MimeType   string
	Size       int64
	CreatedAt  time.Time
}
