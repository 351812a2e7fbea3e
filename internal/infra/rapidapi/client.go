// Package rapidapi fetches upcoming fight events from RapidAPI-hosted
// REST endpoints. Records are returned loosely typed (gjson.Result)
// because the upstream schemas are outside our control and every field
// is optional.
package rapidapi

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"supabox/internal/config"
	"supabox/internal/observability/metrics"
	"supabox/internal/observability/tracing"
	"supabox/internal/resilience/circuitbreaker"
	"supabox/internal/resilience/retry"
)

const (
	headerHost = "x-rapidapi-host"
	headerKey  = "x-rapidapi-key"

	// maxBodyBytes caps how much of an upstream response is read.
	maxBodyBytes = 4 << 20

	userAgent = "SupaBox/1.0"
)

var (
	// ErrInvalidPayload indicates that the upstream body was not valid JSON.
	ErrInvalidPayload = errors.New("invalid JSON payload from upstream")

	// ErrMissingAPIKey is returned without calling upstream when the
	// client has no RapidAPI key.
	ErrMissingAPIKey = config.ErrMissingAPIKey
)

// NewHTTPClient creates an HTTP client with timeouts and connection pooling.
// TLS 1.2+ is enforced for security.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12, // Enforce TLS 1.2+
			},
		},
	}
}

// Client performs authenticated GET requests against RapidAPI.
// It is shared by every fetcher so that the outbound token bucket
// covers the whole RapidAPI account.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	limiter     *rate.Limiter
	retryConfig retry.Config
}

// NewClient creates a Client. ratePerSecond and burst configure the
// outbound token bucket.
func NewClient(httpClient *http.Client, apiKey string, ratePerSecond float64, burst int) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(10 * time.Second)
	}
	return &Client{
		httpClient:  httpClient,
		apiKey:      apiKey,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		retryConfig: retry.UpstreamAPIConfig(),
	}
}

// WithRetryConfig overrides the retry policy. Intended for tests and tuning.
func (c *Client) WithRetryConfig(cfg retry.Config) *Client {
	c.retryConfig = cfg
	return c
}

// request describes one upstream listing call.
type request struct {
	sport   string
	host    string
	url     string
	listKey string
	breaker *circuitbreaker.CircuitBreaker
}

// fetchList runs req through the circuit breaker and, inside it, the
// retry loop. The breaker sees one sample per fetch, after retries.
func (c *Client) fetchList(ctx context.Context, req request) ([]gjson.Result, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	result, err := req.breaker.Execute(func() (interface{}, error) {
		var records []gjson.Result
		err := retry.WithBackoff(ctx, c.retryConfig, func() error {
			var err error
			records, err = c.doFetch(ctx, req)
			return err
		})
		return records, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("upstream circuit breaker open, request rejected",
				slog.String("sport", req.sport),
				slog.String("circuit", req.breaker.Name()),
				slog.String("state", req.breaker.State().String()))
			metrics.RecordUpstreamRequest(req.sport, metrics.OutcomeCircuitOpen, 0)
		}
		return nil, err
	}
	return result.([]gjson.Result), nil
}

// upstreamHealthy reports whether err leaves the upstream's health intact:
// a cancelled caller or a 4xx answer other than 408/429 says nothing
// about availability.
func upstreamHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		code := httpErr.StatusCode
		return code >= 400 && code < 500 &&
			code != http.StatusRequestTimeout && code != http.StatusTooManyRequests
	}
	return false
}

// listingOnError reports whether a non-2xx answer with a JSON body is
// still read as a listing. The MMA schedule answers a day without fights
// with 404 and an error object, which is an empty listing, not a failure.
// Auth, timeout, quota and server errors stay errors.
func listingOnError(statusCode int) bool {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden,
		http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return statusCode >= 400 && statusCode < 500
}

// doFetch performs a single attempt without retry or circuit breaker.
func (c *Client) doFetch(ctx context.Context, req request) (records []gjson.Result, err error) {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	metrics.RecordRateLimitWait(req.sport, time.Since(waitStart))

	ctx, span := tracing.StartUpstreamSpan(ctx, req.sport, req.url)
	start := time.Now()
	statusCode := 0
	defer func() {
		tracing.EndUpstreamSpan(span, statusCode, len(records), err)
		metrics.RecordUpstreamRequest(req.sport, outcomeOf(err), time.Since(start))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set(headerHost, req.host)
	httpReq.Header.Set(headerKey, c.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	slog.Debug("fetching upstream events",
		slog.String("sport", req.sport),
		slog.String("url", req.url))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	statusCode = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if !listingOnError(resp.StatusCode) || !gjson.ValidBytes(body) {
			return nil, &retry.HTTPError{
				StatusCode: resp.StatusCode,
				Message:    upstreamMessage(body, resp.StatusCode),
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			}
		}
		slog.Debug("upstream answered with an error object, reading it as a listing",
			slog.String("sport", req.sport),
			slog.Int("status", resp.StatusCode),
			slog.String("message", upstreamMessage(body, resp.StatusCode)))
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: %w", req.sport, ErrInvalidPayload)
	}

	records = extractRecords(body, req.listKey)
	slog.Debug("upstream events received",
		slog.String("sport", req.sport),
		slog.Int("status", resp.StatusCode),
		slog.Int("records", len(records)))
	return records, nil
}

// extractRecords returns the records under listKey when it is an array,
// the root when the root itself is an array, and nothing otherwise.
func extractRecords(body []byte, listKey string) []gjson.Result {
	root := gjson.ParseBytes(body)
	if root.IsObject() {
		if list := root.Get(listKey); list.IsArray() {
			return list.Array()
		}
		return nil
	}
	if root.IsArray() {
		return root.Array()
	}
	return nil
}

// upstreamMessage picks a short human-readable reason out of an error body.
// RapidAPI gateway errors look like {"message": "..."}.
func upstreamMessage(body []byte, statusCode int) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"message", "error", "detail"} {
			if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	return http.StatusText(statusCode)
}

// parseRetryAfter understands the delta-seconds form only.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		return metrics.OutcomeHTTPError
	}
	if errors.Is(err, ErrInvalidPayload) {
		return metrics.OutcomeDecodeError
	}
	return metrics.OutcomeNetwork
}
