package config

import "os"

// parseEnv overlays Config fields from environment variables:
//
//	TRAINHUB_SERVER_URL   base URL of the REST API
//	TRAINHUB_PUSH_URL     WebSocket URL of the push endpoint
//	TRAINHUB_STORAGE_PATH credential database file
func parseEnv(cfg *Config) {
	if v := os.Getenv("TRAINHUB_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("TRAINHUB_PUSH_URL"); v != "" {
		cfg.PushURL = v
	}
	if v := os.Getenv("TRAINHUB_STORAGE_PATH"); v != "" {
		cfg.StoragePath = v
	}
}
