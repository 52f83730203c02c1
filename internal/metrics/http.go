package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// unmatchedRoute labels requests no route matched, so probing arbitrary paths does
// not create new series.
const unmatchedRoute = "unmatched"

type httpMetrics struct {
	requests  metric.Int64Counter
	durations metric.Float64Histogram
	inFlight  metric.Int64UpDownCounter
}

func newHTTPMetrics(provider *Provider) (*httpMetrics, error) {
	meter := provider.Meter()

	requests, err := meter.Int64Counter(
		provider.Name("http_requests_total"),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durations, err := meter.Float64Histogram(
		provider.Name("http_request_duration_seconds"),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		provider.Name("http_requests_in_flight"),
		metric.WithDescription("HTTP requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{requests: requests, durations: durations, inFlight: inFlight}, nil
}

// HTTPMetricsMiddleware counts requests, observes their latency and tracks how many
// are in flight. Requests are labelled with the route pattern, never the raw path.
func HTTPMetricsMiddleware(provider *Provider) gin.HandlerFunc {
	m, err := newHTTPMetrics(provider)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		m.inFlight.Add(ctx, 1)
		defer m.inFlight.Add(ctx, -1)

		c.Next()

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", routeLabel(c.FullPath())),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		m.requests.Add(ctx, 1, attrs)
		m.durations.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

func routeLabel(fullPath string) string {
	if fullPath == "" {
		return unmatchedRoute
	}
	return fullPath
}
