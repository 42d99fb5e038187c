// Package config loads runtime configuration for the Cachao upload CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the media backend REST API
//	-t string   bearer access token
//	-e string   event id
//	-l string   existing album id
//	-n string   album name to create
//	-y string   upload history sqlite DSN
//	-m int      max concurrent uploads
//
// Remaining non-flag arguments are the files to upload.
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "access_token": "...",
//	  "event_id": "ev-42",
//	  "album_name": "Ceremony",
//	  "files": ["a.mp4", "b.mp4"],
//	  "max_concurrent": 3
//	}
//
// Primary API
//
//   - type Config                     — holds the upload session settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
