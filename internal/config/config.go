// Package config holds the writeburst configuration surface.
//
// Configuration is loaded once, clamped to safe bounds, and never consulted
// again after the worker roles start: the hot path must not touch viper or
// the filesystem. Numeric values outside their documented bounds are clamped
// rather than rejected, matching how operators actually drive a reproducer:
// a tool that refuses to run because a count is too high helps nobody.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Strategy names accepted by the engine.
const (
	StrategyBarrier    = "barrier"
	StrategyContinuous = "continuous"
)

// Config represents the complete writeburst configuration.
type Config struct {
	Burst   BurstConfig   `mapstructure:"burst"`
	State   StateConfig   `mapstructure:"state"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BurstConfig controls the racing engine.
type BurstConfig struct {
	// Strategy selects the racing strategy: "barrier" or "continuous".
	Strategy string `mapstructure:"strategy"`
	// TargetDir is the directory where artifact files are created. It must
	// live on the filesystem whose writeback path is under test.
	TargetDir string `mapstructure:"target_dir"`
	// ArtifactCount is the number of artifact files per cycle (10..10000).
	ArtifactCount int `mapstructure:"artifact_count"`
	// RacerCount is the number of racer workers (1..64).
	RacerCount int `mapstructure:"racer_count"`
	// ChurnWorkers is the number of independent churn workers used by the
	// continuous strategy (1..64).
	ChurnWorkers int `mapstructure:"churn_workers"`
	// SyncIntervalMs is how often the continuous strategy's syncer issues a
	// blocking filesystem flush, in milliseconds (10..10000).
	SyncIntervalMs int `mapstructure:"sync_interval_ms"`
	// StartDelaySeconds is the grace period before workers start, giving the
	// operator a chance to abort. 0 disables the delay.
	StartDelaySeconds int `mapstructure:"start_delay_seconds"`
}

// StateConfig controls the crash-oracle state file.
type StateConfig struct {
	// File is the well-known path of the persistent run record.
	File string `mapstructure:"file"`
	// HeartbeatIntervalMs is how often the monitor snapshots counters to the
	// state file, in milliseconds (100..60000).
	HeartbeatIntervalMs int `mapstructure:"heartbeat_interval_ms"`
}

// LoggingConfig controls structured logging output.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File is an optional log file path. Empty means stderr.
	File string `mapstructure:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Burst: BurstConfig{
			Strategy:          StrategyBarrier,
			TargetDir:         "/mnt/ext4-test/burst",
			ArtifactCount:     1000,
			RacerCount:        16,
			ChurnWorkers:      8,
			SyncIntervalMs:    100,
			StartDelaySeconds: 3,
		},
		State: StateConfig{
			File:                "/var/tmp/writeburst-state",
			HeartbeatIntervalMs: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// SetDefaults registers all defaults with viper so they are available even
// without a config file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("burst.strategy", defaults.Burst.Strategy)
	viper.SetDefault("burst.target_dir", defaults.Burst.TargetDir)
	viper.SetDefault("burst.artifact_count", defaults.Burst.ArtifactCount)
	viper.SetDefault("burst.racer_count", defaults.Burst.RacerCount)
	viper.SetDefault("burst.churn_workers", defaults.Burst.ChurnWorkers)
	viper.SetDefault("burst.sync_interval_ms", defaults.Burst.SyncIntervalMs)
	viper.SetDefault("burst.start_delay_seconds", defaults.Burst.StartDelaySeconds)

	viper.SetDefault("state.file", defaults.State.File)
	viper.SetDefault("state.heartbeat_interval_ms", defaults.State.HeartbeatIntervalMs)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// Load unmarshals the current viper state into a Config, clamps numeric
// values into bounds, and validates the remainder. The returned adjustments
// describe every clamp that was applied so the caller can log them.
func Load() (*Config, []Adjustment, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, nil, err
	}

	adjustments := cfg.Clamp()
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, adjustments, ValidationErrors(errs)
	}

	return &cfg, adjustments, nil
}

// SyncInterval returns the continuous-strategy flush interval as a Duration.
func (b *BurstConfig) SyncInterval() time.Duration {
	return time.Duration(b.SyncIntervalMs) * time.Millisecond
}

// StartDelay returns the startup grace period as a Duration.
func (b *BurstConfig) StartDelay() time.Duration {
	return time.Duration(b.StartDelaySeconds) * time.Second
}

// HeartbeatInterval returns the monitor cadence as a Duration.
func (s *StateConfig) HeartbeatInterval() time.Duration {
	return time.Duration(s.HeartbeatIntervalMs) * time.Millisecond
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "writeburst")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".writeburst"
	}
	return filepath.Join(home, ".config", "writeburst")
}

// ValidStrategies returns the list of valid strategy names.
func ValidStrategies() []string {
	return []string{StrategyBarrier, StrategyContinuous}
}
