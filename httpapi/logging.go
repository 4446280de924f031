package httpapi

import (
	"context"
	"net/http"
	"time"

	"pkt.systems/pslog"
)

type routeKey struct{}

// withRoute tags a request context with its route template for logs and metrics.
func withRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFrom(ctx context.Context) string {
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "other"
}

// loggingTransport logs one line per round trip and feeds the metrics.
type loggingTransport struct {
	next    http.RoundTripper
	metrics *Metrics
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(req)
	elapsed := time.Since(start)
	route := routeFrom(req.Context())
	logger := pslog.Ctx(req.Context()).With("request_id", req.Header.Get(requestIDHeader))
	path := req.URL.Path
	if req.URL.RawQuery != "" {
		path = path + "?" + req.URL.RawQuery
	}
	if err != nil {
		t.metrics.observe(req.Method, route, 0, elapsed)
		logger.Warn("http request failed", "method", req.Method, "path", path, "duration_ms", elapsed.Milliseconds(), "err", err)
		return nil, err
	}
	t.metrics.observe(req.Method, route, resp.StatusCode, elapsed)
	logger.Info("http request", "method", req.Method, "path", path, "status", resp.StatusCode, "bytes", resp.ContentLength, "duration_ms", elapsed.Milliseconds())
	logger.Debug("http request details", "route", route, "ua", req.UserAgent())
	return resp, nil
}
