package route

import (
	"context"
	"log/slog"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/observability/metrics"
	"newsreel/internal/repository"
	"newsreel/internal/resilience/circuitbreaker"
	"newsreel/internal/resilience/health"
	"newsreel/internal/resilience/retry"
)

// Preference orders from production usage: NASA first for imagery, Pixabay
// first when video is wanted.
var (
	ImageOrder = []string{"nasa", "pixabay", "pexels", "unsplash"}
	VideoOrder = []string{"pixabay", "nasa", "pexels", "giphy"}
)

// DefaultHealthFloor is the score below which a provider is skipped.
const DefaultHealthFloor = 0.3

// Request describes one media fetch.
type Request struct {
	Query      string
	Media      entity.MediaType
	SegmentIdx int
}

// Provider is a single external media source.
type Provider interface {
	Name() string
	Search(ctx context.Context, req Request) (*entity.Artifact, error)
}

// Ledger is the slice of the job service the router needs.
type Ledger interface {
	RecordError(ctx context.Context, j *entity.Job, jobErr entity.JobError)
	IncrMetric(ctx context.Context, j *entity.Job, name string, delta int64)
}

// Router fetches artifacts through an ordered provider chain with circuit
// breaking, health-floor skipping, and per-call retries.
type Router struct {
	Providers  map[string]Provider
	ImageOrder []string
	VideoOrder []string

	Breakers *circuitbreaker.Registry
	Health   *health.Tracker
	Records  repository.CallRecordRepository // optional, best effort
	Ledger   Ledger                          // optional
	Logger   *slog.Logger

	RetryConfig  retry.Config
	HealthFloor  float64
	HealthWindow time.Duration
}

// NewRouter creates a router with production defaults.
func NewRouter(providers map[string]Provider, breakers *circuitbreaker.Registry, tracker *health.Tracker, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		Providers:    providers,
		ImageOrder:   ImageOrder,
		VideoOrder:   VideoOrder,
		Breakers:     breakers,
		Health:       tracker,
		Logger:       logger,
		RetryConfig:  retry.MediaProviderConfig(),
		HealthFloor:  DefaultHealthFloor,
		HealthWindow: health.DefaultWindow,
	}
}

// Fetch walks the preference order for the request's media type and returns
// the first successful artifact together with the provider that produced
// it. Open circuits and providers below the health floor are skipped
// without a network attempt. When everything fails the typed
// *AllExhaustedError is returned.
func (r *Router) Fetch(ctx context.Context, j *entity.Job, req Request) (*entity.Artifact, string, error) {
	order := r.ImageOrder
	if req.Media == entity.MediaTypeVideo {
		order = r.VideoOrder
	}

	var (
		attempted []string
		lastErr   error
	)
	for _, name := range order {
		p, ok := r.Providers[name]
		if !ok {
			continue
		}

		if score := r.Health.Score(name, r.HealthWindow); score < r.HealthFloor {
			r.Logger.Info("skipping unhealthy provider",
				slog.String("provider", name),
				slog.Float64("score", score))
			attempted = append(attempted, name)
			continue
		}

		report, allowed := r.Breakers.Allow(name)
		if !allowed {
			r.Logger.Info("skipping provider with open circuit",
				slog.String("provider", name))
			attempted = append(attempted, name)
			continue
		}

		attempted = append(attempted, name)
		start := time.Now()

		var artifact *entity.Artifact
		err := retry.WithBackoff(ctx, r.RetryConfig, func(ctx context.Context) error {
			a, err := p.Search(ctx, req)
			if err != nil {
				return err
			}
			artifact = a
			return nil
		})
		latency := time.Since(start)

		r.reportOutcome(ctx, j, name, req, err == nil, latency, err)
		report(err == nil)

		if err == nil {
			return artifact, name, nil
		}
		lastErr = err

		if j != nil && r.Ledger != nil {
			r.Ledger.RecordError(ctx, j, entity.JobError{
				Step:       "media",
				Provider:   name,
				SegmentIdx: req.SegmentIdx,
				Message:    err.Error(),
				OccurredAt: time.Now(),
			})
		}
		if ctx.Err() != nil {
			break
		}
	}

	return nil, "", &AllExhaustedError{Query: req.Query, Attempted: attempted, LastErr: lastErr}
}

// reportOutcome feeds the health tracker, the call-record store, and the
// job counters. Record-store failures are logged and ignored.
func (r *Router) reportOutcome(ctx context.Context, j *entity.Job, provider string, req Request, succeeded bool, latency time.Duration, callErr error) {
	rec := &entity.ProviderCallRecord{
		Provider:         provider,
		RequestSignature: req.Query,
		Succeeded:        succeeded,
		Latency:          latency,
		Timestamp:        time.Now(),
	}
	if callErr != nil {
		rec.ErrorDetail = callErr.Error()
	}

	r.Health.Record(rec)
	metrics.RecordProviderCall(provider, succeeded, latency)

	if r.Records != nil {
		if err := r.Records.Insert(ctx, rec); err != nil {
			r.Logger.Warn("call record write failed",
				slog.String("provider", provider),
				slog.String("error", err.Error()))
		}
	}
	if j != nil && r.Ledger != nil {
		r.Ledger.IncrMetric(ctx, j, "api_calls_made", 1)
	}
}
