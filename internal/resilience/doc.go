// Package resilience provides the fault tolerance patterns used around
// the RapidAPI event endpoints.
//
// The package supports:
//   - Circuit breakers per upstream API (one for boxing, one for MMA)
//   - Retry logic with exponential backoff, jitter and Retry-After support
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.UpstreamAPIConfig("rapidapi-boxing"))
//	err := retry.WithBackoff(ctx, retry.UpstreamAPIConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) {
//	        return callUpstream(ctx)
//	    })
//	    return err
//	})
package resilience
