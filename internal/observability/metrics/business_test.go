package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordProviderCall(t *testing.T) {
	before := testutil.ToFloat64(ProviderCallsTotal.WithLabelValues("pixabay", "success"))
	RecordProviderCall("pixabay", true, 120*time.Millisecond)
	after := testutil.ToFloat64(ProviderCallsTotal.WithLabelValues("pixabay", "success"))
	if after != before+1 {
		t.Errorf("success counter = %v, want %v", after, before+1)
	}

	before = testutil.ToFloat64(ProviderCallsTotal.WithLabelValues("pixabay", "failure"))
	RecordProviderCall("pixabay", false, time.Second)
	after = testutil.ToFloat64(ProviderCallsTotal.WithLabelValues("pixabay", "failure"))
	if after != before+1 {
		t.Errorf("failure counter = %v, want %v", after, before+1)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("media", "hit"))
	RecordCacheLookup("media", "hit")
	after := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("media", "hit"))
	if after != before+1 {
		t.Errorf("hit counter = %v, want %v", after, before+1)
	}
}

func TestSetCircuitOpen(t *testing.T) {
	SetCircuitOpen("nasa", true)
	if got := testutil.ToFloat64(CircuitOpen.WithLabelValues("nasa")); got != 1 {
		t.Errorf("open gauge = %v, want 1", got)
	}
	SetCircuitOpen("nasa", false)
	if got := testutil.ToFloat64(CircuitOpen.WithLabelValues("nasa")); got != 0 {
		t.Errorf("closed gauge = %v, want 0", got)
	}
}

func TestSetGovernorBudget(t *testing.T) {
	SetGovernorBudget(6)
	if got := testutil.ToFloat64(GovernorBudget); got != 6 {
		t.Errorf("budget gauge = %v, want 6", got)
	}
}

func TestRecordJobFinished(t *testing.T) {
	before := testutil.ToFloat64(JobsFinishedTotal.WithLabelValues("completed"))
	RecordJobFinished("completed")
	after := testutil.ToFloat64(JobsFinishedTotal.WithLabelValues("completed"))
	if after != before+1 {
		t.Errorf("finished counter = %v, want %v", after, before+1)
	}
}
