// Package config reads the server settings from the environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cast"
)

// Environment variable names.
const (
	EnvLogLevel  = "IMAGE_MCP_LOG_LEVEL"
	EnvMode      = "IMAGE_MCP_MODE"
	EnvLogFile   = "IMAGE_MCP_LOG_FILE"
	EnvWorkers   = "IMAGE_MCP_WORKERS"
	EnvCacheSize = "IMAGE_MCP_CACHE_SIZE"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string
	// Mode is "production" (JSON logs) or "development" (console logs).
	Mode string
	// LogFile, when set, receives a rotated copy of every log line.
	LogFile string
	// Workers is the number of goroutines a convolution may use.
	Workers int
	// CacheSize bounds the number of decoded images kept in memory.
	CacheSize int
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:  "warn",
		Mode:      "production",
		Workers:   runtime.GOMAXPROCS(0),
		CacheSize: 32,
	}
}

// Load reads Config from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any key lookup function, starting from
// Default and overriding each key that is present and non-empty.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	if v := get(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := get(EnvMode); v != "" {
		cfg.Mode = strings.ToLower(v)
	}
	cfg.LogFile = get(EnvLogFile)

	if v := get(EnvWorkers); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%s must be a positive integer, got %q", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if v := get(EnvCacheSize); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%s must be a positive integer, got %q", EnvCacheSize, v)
		}
		cfg.CacheSize = n
	}
	return cfg, nil
}

// Development reports whether logs should use the human-readable encoder.
func (c Config) Development() bool {
	return c.Mode == "dev" || c.Mode == "development"
}
