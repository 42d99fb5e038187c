package config

// Config holds runtime settings for the Cachao upload CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the media backend REST API.
//   - AccessToken: bearer token used to authenticate API calls.
//   - EventID: event the uploads belong to.
//   - AlbumID: existing album to file uploads under (optional).
//   - AlbumName: name of an album to create when AlbumID is empty (optional).
//   - Files: paths of the files to upload.
//   - HistoryDSN: sqlite DSN for the local upload history.
//   - MaxConcurrent: how many uploads run at once within a batch.
type Config struct {
	ServerBaseURL string
	AccessToken   string
	EventID       string
	AlbumID       string
	AlbumName     string
	Files         []string
	HistoryDSN    string
	MaxConcurrent int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.HistoryDSN = "history.db"
	c.MaxConcurrent = 3
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
