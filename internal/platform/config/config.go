package config

import (
	"os"
	"time"
)

// Config captures process level configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	CacheTTL    time.Duration
}

// RedisConfig tunes the optional cache connection. An empty URL disables
// the cache entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("DONAPOINT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	cacheTTL := 30 * time.Second
	if raw := os.Getenv("DONAPOINT_CACHE_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cacheTTL = d
		}
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CacheTTL:    cacheTTL,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
}
