package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Viper keys
const (
	KeyBaseURL   = "catalog.baseurl"
	KeyTimeout   = "catalog.timeout"
	KeyRateLimit = "catalog.ratelimit"
	KeyServeAddr = "serve.addr"
	KeyServeDB   = "serve.dbfile"
	KeySeedFile  = "serve.seedfile"
)

const (
	defaultBaseURL   = "http://localhost:5000"
	defaultTimeout   = 10 * time.Second
	defaultServeAddr = "127.0.0.1:5000"
	defaultServeDB   = "file::memory:?cache=shared"
)

// Global configuration variables
var (
	// BaseURL is the address of the book catalog API
	BaseURL string
	// Timeout bounds each catalog request; 0 disables it
	Timeout time.Duration
	// RateLimit caps catalog requests per second; 0 disables pacing
	RateLimit int
	// ServeAddr is the listen address of the fixture catalog server
	ServeAddr string
	// ServeDB is the SQLite DSN backing the fixture catalog server
	ServeDB string
	// SeedFile optionally replaces the built-in seed catalog
	SeedFile string
)

// SetDefaults registers defaults and environment bindings with viper.
func SetDefaults() {
	viper.SetDefault(KeyBaseURL, defaultBaseURL)
	viper.SetDefault(KeyTimeout, defaultTimeout)
	viper.SetDefault(KeyRateLimit, 0)
	viper.SetDefault(KeyServeAddr, defaultServeAddr)
	viper.SetDefault(KeyServeDB, defaultServeDB)
	viper.SetDefault(KeySeedFile, "")

	bindings := map[string]string{
		KeyBaseURL:   "CATALOG_BASE_URL",
		KeyTimeout:   "CATALOG_TIMEOUT",
		KeyRateLimit: "CATALOG_RATE_LIMIT",
		KeyServeAddr: "CATALOG_SERVE_ADDR",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			slog.Error("Failed to bind environment variable", "key", key, "env", env, "error", err)
		}
	}
}

// LoadDotEnv loads .env and .env.local into the process environment if they
// exist. Existing variables win.
func LoadDotEnv() {
	for _, file := range []string{".env", ".env.local"} {
		if err := godotenv.Load(file); err == nil {
			slog.Debug("Loaded environment file", "file", file)
		}
	}
}

// InitConfig initializes the global configuration from viper
func InitConfig() {
	SetDefaults()

	BaseURL = viper.GetString(KeyBaseURL)
	Timeout = viper.GetDuration(KeyTimeout)
	RateLimit = viper.GetInt(KeyRateLimit)
	ServeAddr = viper.GetString(KeyServeAddr)
	ServeDB = viper.GetString(KeyServeDB)
	SeedFile = viper.GetString(KeySeedFile)
}

// SetBaseURL overrides the catalog address; empty values are ignored.
func SetBaseURL(url string) {
	if url != "" {
		BaseURL = url
	}
}

// SetTimeout overrides the request timeout.
func SetTimeout(d time.Duration) {
	Timeout = d
}

// SetRateLimit overrides the requests-per-second cap.
func SetRateLimit(rps int) {
	RateLimit = rps
}
