// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes circuit breakers, retry logic, and provider health tracking to keep the
// pipeline running when external providers fail or rate-limit.
//
// The package supports:
//   - Per-provider circuit breakers for external API calls (media providers, AI APIs)
//   - Retry logic with exponential backoff, jitter, and per-attempt timeouts
//   - Sliding-window health scoring used to skip clearly broken providers
//
// Usage Example:
//
//	breakers := circuitbreaker.NewRegistry(circuitbreaker.DefaultConfig())
//	if report, ok := breakers.Allow("pixabay"); ok {
//	    err := callProvider()
//	    report(err == nil)
//	}
//
//	retryConfig := retry.MediaProviderConfig()
//	err := retry.WithBackoff(ctx, retryConfig, func(ctx context.Context) error {
//	    return performOperation(ctx)
//	})
package resilience
