package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// win over the file.
//
//	TRAINHUB_ADDRESS       HTTP bind address
//	TRAINHUB_DATABASE_DSN  PostgreSQL DSN
//	TRAINHUB_SECRET_KEY    JWT HMAC secret
//	TRAINHUB_TOKEN_MINUTES access token validity, minutes
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("TRAINHUB_ADDRESS"); v != "" {
		cfg.EndpointAddr = v
	}
	if v := os.Getenv("TRAINHUB_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("TRAINHUB_SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
	if v := os.Getenv("TRAINHUB_TOKEN_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			cfg.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
		}
	}
}
