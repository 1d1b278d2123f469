// Package config loads the service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort int

	// SQLitePath is the durable store for users, carts, and orders.
	SQLitePath string

	// CatalogDSN points at the external catalog Postgres. Empty means
	// the in-memory catalog is used (local development only).
	CatalogDSN string

	// RedisAddr enables the catalog cache and the session-backed
	// identity provider. Empty disables both.
	RedisAddr       string
	CatalogCacheTTL time.Duration

	// KafkaBrokers enables order-placed event publishing. Empty
	// disables it.
	KafkaBrokers []string
	KafkaTopic   string

	// MaxCatalogConcurrency bounds parallel catalog lookups during
	// denormalized reads.
	MaxCatalogConcurrency int
}

func Load() Config {
	return Config{
		AppEnv:                getEnv("APP_ENV", "dev"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		HTTPPort:              getEnvInt("HTTP_PORT", 8080),
		SQLitePath:            getEnv("SQLITE_PATH", "./data/storefront.db"),
		CatalogDSN:            getEnv("CATALOG_DSN", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		CatalogCacheTTL:       getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		KafkaBrokers:          getEnvList("KAFKA_BROKERS"),
		KafkaTopic:            getEnv("KAFKA_TOPIC", "storefront.orders"),
		MaxCatalogConcurrency: getEnvInt("MAX_CATALOG_CONCURRENCY", 8),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
