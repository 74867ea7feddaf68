package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Mode)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	assert.Equal(t, 32, cfg.CacheSize)
	assert.False(t, cfg.Development())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		EnvLogLevel:  "DEBUG",
		EnvMode:      "dev",
		EnvLogFile:   "/tmp/filters.log",
		EnvWorkers:   " 3 ",
		EnvCacheSize: "8",
	}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Development())
	assert.Equal(t, "/tmp/filters.log", cfg.LogFile)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 8, cfg.CacheSize)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"workers not a number", map[string]string{EnvWorkers: "many"}},
		{"workers zero", map[string]string{EnvWorkers: "0"}},
		{"cache negative", map[string]string{EnvCacheSize: "-4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvCacheSize, "5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.CacheSize)
}
