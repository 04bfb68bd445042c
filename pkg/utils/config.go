package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Addr     string // HTTP listen address
	SyncAddr string // TCP sync listen address
	GeoDir   string // directory holding the GeoJSON layers
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

// LoadServerConfig reads configuration from the environment, after
// loading a .env file when one is present in the working directory.
func LoadServerConfig() ServerConfig {
	_ = godotenv.Load()

	cfg := ServerConfig{
		Addr:     ":8080",
		SyncAddr: ":7070",
		GeoDir:   "data/geo",
	}
	if v := os.Getenv("TAMBOHUB_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TAMBOHUB_SYNC_ADDR"); v != "" {
		cfg.SyncAddr = v
	}
	if v := os.Getenv("TAMBOHUB_GEO_DIR"); v != "" {
		cfg.GeoDir = v
	}
	return cfg
}

func LoadAuthConfig() AuthConfig {
	_ = godotenv.Load()

	secret := os.Getenv("TAMBOHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("TAMBOHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "tambohub"
	}

	ttl := 24 * time.Hour
	if v := os.Getenv("TAMBOHUB_JWT_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			ttl = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: ttl,
	}
}
