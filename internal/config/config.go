package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the metronome application.
type Config struct {
	// Countdown played before the first stroke cycle.
	CountdownDuration time.Duration
	// How long the catch/finish highlight stays lit.
	HighlightDuration time.Duration
	// Rower animation redraw interval.
	RefreshInterval time.Duration

	// Log file settings (lumberjack).
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
}

const (
	defaultCountdownMS = 3300
	defaultHighlightMS = 250
	defaultRefreshMS   = 50

	defaultLogFile       = "rowing-metronome.log"
	defaultLogMaxSizeMB  = 5
	defaultLogMaxBackups = 2
)

// Load reads configuration from the given file (optional), environment
// variables prefixed with ROWPACE, and built-in defaults, in that order of
// precedence. An empty path means no config file is required.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("countdown_ms", defaultCountdownMS)
	v.SetDefault("highlight_ms", defaultHighlightMS)
	v.SetDefault("refresh_ms", defaultRefreshMS)
	v.SetDefault("log.file", defaultLogFile)
	v.SetDefault("log.max_size_mb", defaultLogMaxSizeMB)
	v.SetDefault("log.max_backups", defaultLogMaxBackups)

	v.SetEnvPrefix("ROWPACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		CountdownDuration: time.Duration(v.GetInt("countdown_ms")) * time.Millisecond,
		HighlightDuration: time.Duration(v.GetInt("highlight_ms")) * time.Millisecond,
		RefreshInterval:   time.Duration(v.GetInt("refresh_ms")) * time.Millisecond,
		LogFile:           v.GetString("log.file"),
		LogMaxSizeMB:      v.GetInt("log.max_size_mb"),
		LogMaxBackups:     v.GetInt("log.max_backups"),
	}

	if cfg.CountdownDuration < 0 || cfg.HighlightDuration < 0 {
		return Config{}, fmt.Errorf("durations must not be negative")
	}
	if cfg.RefreshInterval <= 0 {
		return Config{}, fmt.Errorf("refresh_ms must be positive")
	}

	return cfg, nil
}
