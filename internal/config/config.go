// Package config loads and validates application configuration.
//
// Values come from environment variables, optionally layered over a YAML or
// TOML file named by CONFIG_FILE. Environment variables win.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the server and the CLI.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	CORSOrigins []string

	// MaxBodyBytes caps request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MessageWebhookURL is where share messages are posted. When empty,
	// messages are written to the log instead.
	MessageWebhookURL string

	// MessageSegmentLimit is the longest message segment, in characters, the
	// messaging transport accepts. Defaults to 160.
	MessageSegmentLimit int

	// LocationMaxAge is how old a device location report may be before a
	// lookup treats the location as unavailable. Zero accepts any age.
	LocationMaxAge time.Duration

	// LocationTimeout bounds a single location lookup.
	LocationTimeout time.Duration

	// AutoMigrate applies pending schema migrations when the server starts.
	AutoMigrate bool
}

var defaults = map[string]any{
	"port":                  "8080",
	"log_level":             "info",
	"cors_origins":          "http://localhost:5173",
	"max_body_bytes":        "1048576",
	"message_webhook_url":   "",
	"message_segment_limit": "160",
	"location_max_age":      "2m",
	"location_timeout":      "5s",
	"auto_migrate":          "false",
}

// Load reads configuration and returns a Config.
// Returns an error listing any required values that are missing and any
// values that cannot be parsed.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path, which takes the place
// of CONFIG_FILE when non-empty.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	// Keys are lower_snake; AutomaticEnv upper-cases them to find the
	// variable, so "database_url" reads DATABASE_URL.
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("config_file")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config.LoadFile: read %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:              v.GetString("port"),
		DatabaseURL:       v.GetString("database_url"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		CORSOrigins:       splitCSV(v.GetString("cors_origins")),
		MessageWebhookURL: v.GetString("message_webhook_url"),
	}

	var problems []string
	if cfg.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}

	var err error
	if cfg.MaxBodyBytes, err = strconv.ParseInt(v.GetString("max_body_bytes"), 10, 64); err != nil || cfg.MaxBodyBytes < 1 {
		problems = append(problems, "MAX_BODY_BYTES must be a positive integer")
	}
	if cfg.MessageSegmentLimit, err = strconv.Atoi(v.GetString("message_segment_limit")); err != nil || cfg.MessageSegmentLimit < 1 {
		problems = append(problems, "MESSAGE_SEGMENT_LIMIT must be a positive integer")
	}
	if cfg.LocationMaxAge, err = time.ParseDuration(v.GetString("location_max_age")); err != nil || cfg.LocationMaxAge < 0 {
		problems = append(problems, "LOCATION_MAX_AGE must be a non-negative duration")
	}
	if cfg.LocationTimeout, err = time.ParseDuration(v.GetString("location_timeout")); err != nil || cfg.LocationTimeout <= 0 {
		problems = append(problems, "LOCATION_TIMEOUT must be a positive duration")
	}
	if cfg.AutoMigrate, err = strconv.ParseBool(v.GetString("auto_migrate")); err != nil {
		problems = append(problems, "AUTO_MIGRATE must be a boolean")
	}

	if len(problems) > 0 {
		return Config{}, errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return cfg, nil
}

// SlogLevel returns LogLevel as a slog.Level, falling back to Info for
// unrecognized values.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
