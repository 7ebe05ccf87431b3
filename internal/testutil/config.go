package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/bookcall/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit int
	ServeAddr string
	ServeDB   string
	SeedFile  string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		BaseURL:   config.BaseURL,
		Timeout:   config.Timeout,
		RateLimit: config.RateLimit,
		ServeAddr: config.ServeAddr,
		ServeDB:   config.ServeDB,
		SeedFile:  config.SeedFile,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.BaseURL = state.BaseURL
	config.Timeout = state.Timeout
	config.RateLimit = state.RateLimit
	config.ServeAddr = state.ServeAddr
	config.ServeDB = state.ServeDB
	config.SeedFile = state.SeedFile
}

// ResetConfig resets viper and re-reads defaults into the config package,
// restoring the previous state when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()
	config.InitConfig()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset; ResetConfig covers that case
	})
}
