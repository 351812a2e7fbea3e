// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Upstream RapidAPI metrics (attempts, latency, rate limiter wait, breaker state)
//   - Business metrics (listings served, events per listing)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	resp, err := client.Do(req)
//	metrics.RecordUpstreamRequest("mma", metrics.OutcomeSuccess, time.Since(start))
package metrics
