package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

const metricPrefix = "wxmp."

// Instrumentation logs and records metrics for client operations. The zero
// value is usable and discards everything.
type Instrumentation struct {
	Logger  Logger
	Metrics MetricsRecorder
}

func NewInstrumentation(logger Logger, metrics MetricsRecorder) Instrumentation {
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	return Instrumentation{
		Logger:  glog.Ensure(logger),
		Metrics: metrics,
	}
}

func (i Instrumentation) ObserveOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	elapsed := time.Since(startedAt).Milliseconds()

	contextFields := cloneFields(fields)
	contextFields["event_type"] = operation
	contextFields["status"] = status
	contextFields["duration_ms"] = elapsed
	if err != nil {
		contextFields["error"] = err.Error()
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	if kind := strings.TrimSpace(fmt.Sprint(contextFields["kind"])); kind != "" && kind != "<nil>" {
		tags["kind"] = kind
	}

	i.IncCounter(ctx, operation+".total", tags)
	i.ObserveHistogram(ctx, operation+".duration_ms", float64(elapsed), tags)

	if err != nil {
		i.log(ctx, "error", operation+" failed", contextFields)
		return
	}
	i.log(ctx, "info", operation+" succeeded", contextFields)
}

func (i Instrumentation) Warn(ctx context.Context, message string, fields map[string]any) {
	i.log(ctx, "warn", message, fields)
}

func (i Instrumentation) Debug(ctx context.Context, message string, fields map[string]any) {
	i.log(ctx, "debug", message, fields)
}

func (i Instrumentation) IncCounter(ctx context.Context, name string, tags map[string]string) {
	if i.Metrics == nil {
		return
	}
	i.Metrics.IncCounter(ctx, metricPrefix+strings.TrimSpace(name), 1, cloneTags(tags))
}

func (i Instrumentation) ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if i.Metrics == nil {
		return
	}
	i.Metrics.ObserveHistogram(ctx, metricPrefix+strings.TrimSpace(name), value, cloneTags(tags))
}

func (i Instrumentation) log(ctx context.Context, level string, message string, fields map[string]any) {
	if i.Logger == nil {
		return
	}
	logger := i.Logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

var _ MetricsRecorder = NopMetricsRecorder{}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func cloneTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return map[string]string{}
	}
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
