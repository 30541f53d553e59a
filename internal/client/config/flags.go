package config

import (
	"flag"
	"os"
)

// parseFlags overlays Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the REST API
//	-w string   WebSocket URL of the push endpoint
//	-d string   credential database file
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the REST API")
	fs.StringVar(&cfg.PushURL, "w", cfg.PushURL, "WebSocket URL of the push endpoint")
	fs.StringVar(&cfg.StoragePath, "d", cfg.StoragePath, "credential database file")

	if err := fs.Parse(os.Args[1:]); err != nil {
		panic(err)
	}
}
