package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-wxmp/core"
	"github.com/google/uuid"
)

const defaultResponseBodyLimit int64 = 10 << 20 // 10 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RESTAdapter sends platform requests relative to a fixed base URL.
type RESTAdapter struct {
	Client               HTTPDoer
	BaseURL              string
	Timeout              time.Duration
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
	Observers            []core.TransportObserver
}

func NewRESTAdapter(baseURL string, timeout time.Duration, client HTTPDoer) *RESTAdapter {
	if timeout <= 0 {
		timeout = core.DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = core.DefaultBaseURL
	}
	return &RESTAdapter{
		Client:               client,
		BaseURL:              baseURL,
		Timeout:              timeout,
		DefaultHeaders:       map[string]string{},
		MaxResponseBodyBytes: defaultResponseBodyLimit,
	}
}

func (a *RESTAdapter) Observe(observers ...core.TransportObserver) {
	if a == nil {
		return
	}
	for _, observer := range observers {
		if observer != nil {
			a.Observers = append(a.Observers, observer)
		}
	}
}

func (a *RESTAdapter) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if a == nil || a.Client == nil {
		return core.TransportResponse{}, core.TransportError("transport: rest adapter requires an http client", 0, nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	req.Method = method
	target, err := a.resolveURL(req.Path, req.Query)
	if err != nil {
		return core.TransportResponse{}, core.BadInputError(fmt.Sprintf("transport: invalid request url %q: %v", req.Path, err))
	}
	if req.Metadata == nil {
		req.Metadata = map[string]any{}
	}
	if _, ok := req.Metadata["request_id"]; !ok {
		req.Metadata["request_id"] = uuid.NewString()
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = a.Timeout
	}
	requestCtx := ctx
	cancel := func() {}
	if timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, method, target, bytes.NewReader(req.Body))
	if err != nil {
		return core.TransportResponse{}, core.BadInputError(fmt.Sprintf("transport: create http request: %v", err))
	}
	for key, value := range a.DefaultHeaders {
		if strings.TrimSpace(key) != "" {
			httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
		}
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, value := range req.Headers {
		if strings.TrimSpace(key) != "" {
			httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
		}
	}

	a.beforeRequest(ctx, req)
	startedAt := time.Now()
	res, err := a.execute(httpReq, resolveResponseBodyLimit(a.MaxResponseBodyBytes))
	a.afterResponse(ctx, req, res, err, time.Since(startedAt))
	if err != nil {
		return core.TransportResponse{}, err
	}
	res.Metadata["request_id"] = req.Metadata["request_id"]
	res.Metadata["duration_ms"] = time.Since(startedAt).Milliseconds()
	return res, nil
}

func (a *RESTAdapter) execute(httpReq *http.Request, maxBodyBytes int64) (core.TransportResponse, error) {
	operation := "transport: " + httpReq.Method + " " + httpReq.URL.Path
	httpRes, err := a.Client.Do(httpReq)
	if err != nil {
		return core.TransportResponse{}, core.TransportError(operation, 0, err)
	}
	defer httpRes.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return core.TransportResponse{}, core.TransportError(operation, httpRes.StatusCode, err)
	}
	if int64(len(body)) > maxBodyBytes {
		return core.TransportResponse{}, core.TransportError(
			fmt.Sprintf("%s: response body exceeds limit of %d bytes", operation, maxBodyBytes),
			httpRes.StatusCode,
			nil,
		)
	}
	return core.TransportResponse{
		StatusCode: httpRes.StatusCode,
		Headers:    flattenHeaders(httpRes.Header),
		Body:       body,
		Metadata:   map[string]any{},
	}, nil
}

func (a *RESTAdapter) resolveURL(path string, query url.Values) (string, error) {
	path = strings.TrimSpace(path)
	var target *url.URL
	var err error
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		target, err = url.Parse(path)
	} else {
		if path != "" && !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		target, err = url.Parse(a.BaseURL + path)
	}
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		merged := target.Query()
		for key, values := range query {
			if strings.TrimSpace(key) == "" {
				continue
			}
			merged.Del(key)
			for _, value := range values {
				merged.Add(key, value)
			}
		}
		target.RawQuery = merged.Encode()
	}
	return target.String(), nil
}

func (a *RESTAdapter) beforeRequest(ctx context.Context, req core.TransportRequest) {
	for _, observer := range a.Observers {
		observer.BeforeRequest(ctx, req)
	}
}

func (a *RESTAdapter) afterResponse(ctx context.Context, req core.TransportRequest, res core.TransportResponse, err error, elapsed time.Duration) {
	for _, observer := range a.Observers {
		observer.AfterResponse(ctx, req, res, err, elapsed)
	}
}

func flattenHeaders(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

func resolveResponseBodyLimit(limit int64) int64 {
	if limit > 0 {
		return limit
	}
	return defaultResponseBodyLimit
}

var _ core.Transport = (*RESTAdapter)(nil)
