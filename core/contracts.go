package core

import (
	"context"
	"net/url"
	"time"

	"github.com/benbjohnson/clock"
	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// Clock is the time source used for credential expiry and signature
// timestamps. Tests swap in clock.NewMock().
type Clock = clock.Clock

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// NonceFunc returns a fresh random string for signatures.
type NonceFunc func() string

type TransportRequest struct {
	Method string
	// Path is resolved against the transport base URL unless it is absolute.
	Path     string
	Query    url.Values
	Headers  map[string]string
	Body     []byte
	Metadata map[string]any
	Timeout  time.Duration
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

// Transport performs one platform HTTP call. Implementations own base URL,
// timeout and connection handling; they do not retry.
type Transport interface {
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// TransportObserver is invoked around every transport call. AfterResponse
// receives the zero response when err is non-nil.
type TransportObserver interface {
	BeforeRequest(ctx context.Context, req TransportRequest)
	AfterResponse(ctx context.Context, req TransportRequest, res TransportResponse, err error, elapsed time.Duration)
}

type TransportFunc func(ctx context.Context, req TransportRequest) (TransportResponse, error)

func (f TransportFunc) Do(ctx context.Context, req TransportRequest) (TransportResponse, error) {
	return f(ctx, req)
}

var _ Transport = TransportFunc(nil)
