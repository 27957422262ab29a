package transport

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-wxmp/core"
	glog "github.com/goliatone/go-logger/glog"
)

const maxLoggedBodyBytes = 2048

// LoggingObserver traces every platform call at debug level. Query values
// named in Redact are masked.
type LoggingObserver struct {
	Logger core.Logger
	Redact []string
}

func NewLoggingObserver(logger core.Logger) *LoggingObserver {
	return &LoggingObserver{
		Logger: glog.Ensure(logger),
		Redact: []string{"secret", "access_token", "refresh_token", "js_code"},
	}
}

func (o *LoggingObserver) BeforeRequest(ctx context.Context, req core.TransportRequest) {
	if o == nil || o.Logger == nil {
		return
	}
	o.logger(ctx).Debug("wxmp request",
		"request_id", req.Metadata["request_id"],
		"method", req.Method,
		"path", req.Path,
		"query", o.redactQuery(req),
		"headers", formatHeaders(req.Headers),
		"body", truncateBody(req.Body),
	)
}

func (o *LoggingObserver) AfterResponse(
	ctx context.Context,
	req core.TransportRequest,
	res core.TransportResponse,
	err error,
	elapsed time.Duration,
) {
	if o == nil || o.Logger == nil {
		return
	}
	if err != nil {
		o.logger(ctx).Debug("wxmp response failed",
			"request_id", req.Metadata["request_id"],
			"method", req.Method,
			"path", req.Path,
			"duration_ms", elapsed.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	o.logger(ctx).Debug("wxmp response",
		"request_id", req.Metadata["request_id"],
		"method", req.Method,
		"path", req.Path,
		"status", res.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
		"body", truncateBody(res.Body),
	)
}

func (o *LoggingObserver) logger(ctx context.Context) core.Logger {
	if ctx == nil {
		return o.Logger
	}
	return o.Logger.WithContext(ctx)
}

func (o *LoggingObserver) redactQuery(req core.TransportRequest) string {
	if len(req.Query) == 0 {
		return ""
	}
	masked := make(map[string]bool, len(o.Redact))
	for _, key := range o.Redact {
		masked[strings.ToLower(strings.TrimSpace(key))] = true
	}
	copied := make(map[string][]string, len(req.Query))
	for key, values := range req.Query {
		if masked[strings.ToLower(key)] {
			copied[key] = []string{"[REDACTED]"}
			continue
		}
		copied[key] = values
	}
	keys := make([]string, 0, len(copied))
	for key := range copied {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+strings.Join(copied[key], ","))
	}
	return strings.Join(parts, "&")
}

func formatHeaders(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, headers[key]))
	}
	return strings.Join(parts, "; ")
}

func truncateBody(body []byte) string {
	if len(body) <= maxLoggedBodyBytes {
		return string(body)
	}
	return string(body[:maxLoggedBodyBytes]) + "...(truncated)"
}

var _ core.TransportObserver = (*LoggingObserver)(nil)
