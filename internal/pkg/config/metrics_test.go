package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Shared because promauto registers globally; a second NewConfigMetrics
// with the same component name would panic.
var testMetrics = NewConfigMetrics("testcfg")

func TestConfigMetrics_RecordValidationError(t *testing.T) {
	before := testutil.ToFloat64(testMetrics.ValidationErrorsTotal.WithLabelValues("timezone"))
	testMetrics.RecordValidationError("timezone")
	after := testutil.ToFloat64(testMetrics.ValidationErrorsTotal.WithLabelValues("timezone"))
	if after != before+1 {
		t.Errorf("validation errors = %v, want %v", after, before+1)
	}
}

func TestConfigMetrics_RecordFallback(t *testing.T) {
	before := testutil.ToFloat64(testMetrics.FallbacksTotal.WithLabelValues("cron_schedule"))
	testMetrics.RecordFallback("cron_schedule", "default")
	after := testutil.ToFloat64(testMetrics.FallbacksTotal.WithLabelValues("cron_schedule"))
	if after != before+1 {
		t.Errorf("fallbacks = %v, want %v", after, before+1)
	}
}

func TestConfigMetrics_SetFallbackActive(t *testing.T) {
	testMetrics.SetFallbackActive("any", true)
	if got := testutil.ToFloat64(testMetrics.FallbackActive); got != 1 {
		t.Errorf("fallback active = %v, want 1", got)
	}
	testMetrics.SetFallbackActive("any", false)
	if got := testutil.ToFloat64(testMetrics.FallbackActive); got != 0 {
		t.Errorf("fallback active = %v, want 0", got)
	}
}

func TestConfigMetrics_RecordLoadTimestamp(t *testing.T) {
	testMetrics.RecordLoadTimestamp()
	if got := testutil.ToFloat64(testMetrics.LoadTimestamp); got <= 0 {
		t.Errorf("load timestamp = %v, want positive", got)
	}
}
