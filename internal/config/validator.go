package config

import (
	"fmt"
	"slices"
	"strings"
)

// Bounds for clamped numeric settings. An artifact batch below 10 files
// cannot build meaningful writeback pressure; above 10000 the produce phase
// dominates the cycle and the race window shrinks.
const (
	MinArtifacts = 10
	MaxArtifacts = 10000

	MinRacers = 1
	MaxRacers = 64

	MinChurnWorkers = 1
	MaxChurnWorkers = 64

	MinSyncIntervalMs = 10
	MaxSyncIntervalMs = 10000

	MinHeartbeatMs = 100
	MaxHeartbeatMs = 60000
)

// Adjustment records one numeric clamp applied during Load.
type Adjustment struct {
	Field string // The config field path (e.g., "burst.racer_count")
	From  int    // The configured value
	To    int    // The clamped value
}

// String renders the adjustment for logging.
func (a Adjustment) String() string {
	return fmt.Sprintf("%s: %d clamped to %d", a.Field, a.From, a.To)
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "burst.strategy")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Clamp forces every numeric setting into its documented bounds, returning a
// record of each adjustment made. It never fails: an out-of-range value is
// operator enthusiasm, not an error.
func (c *Config) Clamp() []Adjustment {
	var adjusted []Adjustment

	clamp := func(field string, v *int, min, max int) {
		orig := *v
		if *v < min {
			*v = min
		}
		if *v > max {
			*v = max
		}
		if *v != orig {
			adjusted = append(adjusted, Adjustment{Field: field, From: orig, To: *v})
		}
	}

	clamp("burst.artifact_count", &c.Burst.ArtifactCount, MinArtifacts, MaxArtifacts)
	clamp("burst.racer_count", &c.Burst.RacerCount, MinRacers, MaxRacers)
	clamp("burst.churn_workers", &c.Burst.ChurnWorkers, MinChurnWorkers, MaxChurnWorkers)
	clamp("burst.sync_interval_ms", &c.Burst.SyncIntervalMs, MinSyncIntervalMs, MaxSyncIntervalMs)
	clamp("state.heartbeat_interval_ms", &c.State.HeartbeatIntervalMs, MinHeartbeatMs, MaxHeartbeatMs)

	if c.Burst.StartDelaySeconds < 0 {
		adjusted = append(adjusted, Adjustment{
			Field: "burst.start_delay_seconds",
			From:  c.Burst.StartDelaySeconds,
			To:    0,
		})
		c.Burst.StartDelaySeconds = 0
	}

	return adjusted
}

// Validate checks the non-numeric settings and returns all validation errors
// found. Numeric range problems are handled by Clamp, not here.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Burst.TargetDir == "" {
		errors = append(errors, ValidationError{
			Field:   "burst.target_dir",
			Value:   c.Burst.TargetDir,
			Message: "must not be empty",
		})
	}

	if !slices.Contains(ValidStrategies(), c.Burst.Strategy) {
		errors = append(errors, ValidationError{
			Field:   "burst.strategy",
			Value:   c.Burst.Strategy,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStrategies(), ", ")),
		})
	}

	if c.State.File == "" {
		errors = append(errors, ValidationError{
			Field:   "state.file",
			Value:   c.State.File,
			Message: "must not be empty",
		})
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLevels, ", ")),
		})
	}

	return errors
}
