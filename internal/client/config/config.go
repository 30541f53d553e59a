// Package config handles configuration for the client: defaults overlaid by
// environment variables and command-line flags.
package config

// Config holds runtime settings for the trainhub CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API.
//   - PushURL: WebSocket URL of the push channel endpoint.
//   - StoragePath: SQLite file holding the persisted credential.
type Config struct {
	ServerURL   string
	PushURL     string
	StoragePath string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8001"
	c.PushURL = "ws://127.0.0.1:8001/ws"
	c.StoragePath = "trainhub.db"
}

// LoadConfig constructs a Config by applying defaults, then environment
// variables, then command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
