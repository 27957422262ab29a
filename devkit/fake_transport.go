package devkit

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/goliatone/go-wxmp/core"
)

type TransportScript struct {
	Response core.TransportResponse
	Err      error
}

// FakeTransport replays scripted responses in order and records every
// request. Once the script runs out the last entry is repeated. When Handler
// is set it takes precedence over the script.
type FakeTransport struct {
	mu       sync.Mutex
	scripts  []TransportScript
	requests []core.TransportRequest
	calls    atomic.Int64

	Handler func(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error)
}

func NewFakeTransport(scripts ...TransportScript) *FakeTransport {
	return &FakeTransport{scripts: append([]TransportScript(nil), scripts...)}
}

func (t *FakeTransport) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if t == nil {
		return core.TransportResponse{}, fmt.Errorf("devkit: fake transport is nil")
	}
	t.calls.Add(1)
	t.mu.Lock()
	t.requests = append(t.requests, cloneTransportRequest(req))
	index := len(t.requests) - 1
	handler := t.Handler
	var script *TransportScript
	if index < len(t.scripts) {
		script = &t.scripts[index]
	} else if len(t.scripts) > 0 {
		script = &t.scripts[len(t.scripts)-1]
	}
	t.mu.Unlock()

	if handler != nil {
		return handler(ctx, cloneTransportRequest(req))
	}
	if script != nil {
		return cloneTransportResponse(script.Response), script.Err
	}
	return core.TransportResponse{
		StatusCode: 200,
		Headers:    map[string]string{},
		Body:       []byte(`{}`),
		Metadata:   map[string]any{},
	}, nil
}

func (t *FakeTransport) Requests() []core.TransportRequest {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]core.TransportRequest, 0, len(t.requests))
	for _, item := range t.requests {
		out = append(out, cloneTransportRequest(item))
	}
	return out
}

// Calls counts Do invocations, including those still in flight.
func (t *FakeTransport) Calls() int {
	if t == nil {
		return 0
	}
	return int(t.calls.Load())
}

// JSON builds a 200 script entry whose body is payload encoded as JSON.
func JSON(payload any) TransportScript {
	return Status(200, payload)
}

func Status(status int, payload any) TransportScript {
	var body []byte
	switch value := payload.(type) {
	case nil:
	case string:
		body = []byte(value)
	case []byte:
		body = append([]byte(nil), value...)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return TransportScript{Err: fmt.Errorf("devkit: encode scripted payload: %w", err)}
		}
		body = encoded
	}
	return TransportScript{Response: core.TransportResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
		Metadata:   map[string]any{},
	}}
}

func Failure(err error) TransportScript {
	return TransportScript{Err: err}
}

func cloneTransportRequest(in core.TransportRequest) core.TransportRequest {
	out := core.TransportRequest{
		Method:   in.Method,
		Path:     in.Path,
		Headers:  map[string]string{},
		Query:    url.Values{},
		Body:     append([]byte(nil), in.Body...),
		Metadata: map[string]any{},
		Timeout:  in.Timeout,
	}
	for key, value := range in.Headers {
		out.Headers[key] = value
	}
	for key, values := range in.Query {
		out.Query[key] = append([]string(nil), values...)
	}
	for key, value := range in.Metadata {
		out.Metadata[key] = value
	}
	return out
}

func cloneTransportResponse(in core.TransportResponse) core.TransportResponse {
	out := core.TransportResponse{
		StatusCode: in.StatusCode,
		Headers:    map[string]string{},
		Body:       append([]byte(nil), in.Body...),
		Metadata:   map[string]any{},
	}
	for key, value := range in.Headers {
		out.Headers[key] = value
	}
	for key, value := range in.Metadata {
		out.Metadata[key] = value
	}
	return out
}

var _ core.Transport = (*FakeTransport)(nil)
