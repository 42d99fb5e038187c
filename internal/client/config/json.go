package config

import (
	"encoding/json"
	"os"

	"github.com/cachao/media/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After parsing,
// values are copied into the runtime Config.
type JsonConfig struct {
	ServerBaseURL string   `json:"server_base_url"`
	AccessToken   string   `json:"access_token"`
	EventID       string   `json:"event_id"`
	AlbumID       string   `json:"album_id"`
	AlbumName     string   `json:"album_name"`
	Files         []string `json:"files"`
	HistoryDSN    string   `json:"history_dsn"`
	MaxConcurrent int      `json:"max_concurrent"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies known fields into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerBaseURL = jc.ServerBaseURL
	cfg.AccessToken = jc.AccessToken
	cfg.EventID = jc.EventID
	cfg.AlbumID = jc.AlbumID
	cfg.AlbumName = jc.AlbumName
	if len(jc.Files) > 0 {
		cfg.Files = jc.Files
	}
	cfg.HistoryDSN = jc.HistoryDSN
	if jc.MaxConcurrent > 0 {
		cfg.MaxConcurrent = jc.MaxConcurrent
	}
}
