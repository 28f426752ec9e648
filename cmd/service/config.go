package main

import (
	"os"
	"time"
)

type Config struct {
	Port          string
	DataDir       string
	DatabaseURL   string
	RedisURL      string
	StorageMode   string // "file" | "postgres" | "redis"
	FlushInterval time.Duration
}

func loadConfigFromEnv() Config {
	cfg := Config{
		Port:          getenv("PORT", "3000"),
		DataDir:       getenv("DATA_DIR", "./data"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		RedisURL:      getenv("REDIS_URL", ""),
		StorageMode:   getenv("STORAGE", ""),
		FlushInterval: getenvDuration("FLUSH_INTERVAL", time.Second),
	}

	// Storage mode follows what is configured: an explicit STORAGE wins,
	// otherwise a database URL means postgres and the default is files.
	if cfg.StorageMode == "" {
		if cfg.DatabaseURL != "" {
			cfg.StorageMode = "postgres"
		} else {
			cfg.StorageMode = "file"
		}
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
