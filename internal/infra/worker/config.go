package worker

import (
	"fmt"
	"log/slog"
	"time"

	"newsreel/internal/pkg/config"
)

// ScheduleConfig controls the cron-driven pipeline: when runs fire, how
// long one run may take, and where liveness is served.
//
// Loading is fail-open: an invalid environment value falls back to the
// default with a warning instead of refusing to start, since a missed
// nightly run is cheaper than a scheduler that never comes up.
type ScheduleConfig struct {
	// CronSchedule is the five-field cron expression for assembly runs.
	CronSchedule string

	// Timezone is the IANA timezone name the schedule is evaluated in.
	Timezone string

	// RunTimeout cancels a run that exceeds it.
	RunTimeout time.Duration

	// HealthPort serves the liveness and readiness probes.
	HealthPort int
}

// DefaultScheduleConfig returns the production defaults: one run every
// morning at 5:30 UTC, 45 minute run budget, probes on 9091.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		CronSchedule: "30 5 * * *",
		Timezone:     "UTC",
		RunTimeout:   45 * time.Minute,
		HealthPort:   9091,
	}
}

// Validate checks every field and returns the collected errors.
func (c *ScheduleConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadScheduleFromEnv loads the schedule configuration from environment
// variables, falling back to defaults on invalid values.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default: "30 5 * * *")
//   - PIPELINE_TIMEZONE: IANA timezone name (default: "UTC")
//   - RUN_TIMEOUT: duration string, e.g. "45m" (range 1m-4h)
//   - PIPELINE_HEALTH_PORT: integer 1024-65535 (default: 9091)
//
// Every fallback is logged and counted on the metrics instance. The
// returned config is always valid; the error is kept in the signature
// for call-site symmetry with stricter loaders.
func LoadScheduleFromEnv(logger *slog.Logger, metrics *PipelineMetrics) (*ScheduleConfig, error) {
	cfg := DefaultScheduleConfig()
	fallbackApplied := false

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("cron_schedule")
		metrics.RecordFallback("cron_schedule", "default")
		warnFallbacks(logger, "CronSchedule", result.Warnings)
	}

	result = config.LoadEnvWithFallback("PIPELINE_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("timezone")
		metrics.RecordFallback("timezone", "default")
		warnFallbacks(logger, "Timezone", result.Warnings)
	}

	result = config.LoadEnvDuration("RUN_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.RunTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("run_timeout")
		metrics.RecordFallback("run_timeout", "default")
		warnFallbacks(logger, "RunTimeout", result.Warnings)
	}

	result = config.LoadEnvInt("PIPELINE_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("health_port")
		metrics.RecordFallback("health_port", "default")
		warnFallbacks(logger, "HealthPort", result.Warnings)
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}

func warnFallbacks(logger *slog.Logger, field string, warnings []string) {
	for _, warning := range warnings {
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}
}
