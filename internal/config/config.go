package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	CORSOrigins string
	// BasePath lets the API be mounted under a sub-path when deployed
	// behind a shared reverse proxy.
	BasePath     string
	SeedDemoData bool
}

const defaultDSN = "file::memory:?cache=shared"

func Load() *Config {
	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", defaultDSN),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		BasePath:     getEnv("BASE_PATH", "/"),
		SeedDemoData: getEnv("SEED_DEMO_DATA", "true") == "true",
	}

	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN not set, using the in-memory database: all data is discarded on shutdown.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS not set, allowing only the local dev frontend.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
