package config

import (
	"flag"
	"os"

	"github.com/cachao/media/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the media backend (default from Config)
//	-t string   bearer access token
//	-e string   event id the uploads belong to
//	-l string   existing album id (optional)
//	-n string   name of an album to create (optional)
//	-y string   sqlite DSN of the local upload history
//	-m int      max concurrent uploads per batch
//
// Remaining non-flag arguments are treated as file paths to upload.
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-e", "-l", "-n", "-y", "-m"})

	// Positional arguments are extracted separately: FilterArgs strips
	// everything but the flags above, so the file paths would never survive
	// fs.Parse. The -c/-config pair is listed so a config file path is not
	// mistaken for a file to upload.
	files := flagx.PositionalArgs(os.Args[1:], []string{"-a", "-t", "-e", "-l", "-n", "-y", "-m", "-c", "-config"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the media backend")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "bearer access token")
	fs.StringVar(&cfg.EventID, "e", cfg.EventID, "event id")
	fs.StringVar(&cfg.AlbumID, "l", cfg.AlbumID, "album id")
	fs.StringVar(&cfg.AlbumName, "n", cfg.AlbumName, "album name to create")
	fs.StringVar(&cfg.HistoryDSN, "y", cfg.HistoryDSN, "upload history sqlite DSN")
	fs.IntVar(&cfg.MaxConcurrent, "m", cfg.MaxConcurrent, "max concurrent uploads")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if len(files) > 0 {
		cfg.Files = files
	}
}
