// Package models defines server-side data models persisted in the database.
package models

import "time"

// Album groups media inside an event.
type Album struct {
	ID        string
	EventID   string
	Name      string
	CreatedAt time.Time
}
