package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-wxmp/core"
	glog "github.com/goliatone/go-logger/glog"
	"gopkg.in/h2non/gock.v1"
)

type debugLogger struct {
	messages []string
	args     [][]any
}

func (l *debugLogger) Trace(string, ...any) {}
func (l *debugLogger) Debug(msg string, args ...any) {
	l.messages = append(l.messages, msg)
	l.args = append(l.args, args)
}
func (l *debugLogger) Info(string, ...any)                     {}
func (l *debugLogger) Warn(string, ...any)                     {}
func (l *debugLogger) Error(string, ...any)                    {}
func (l *debugLogger) Fatal(string, ...any)                    {}
func (l *debugLogger) WithContext(context.Context) glog.Logger { return l }

func TestRESTAdapter_ResolvesPathAndQueryAgainstBaseURL(t *testing.T) {
	defer gock.Off()
	gock.New("https://api.weixin.qq.com").
		Get("/cgi-bin/token").
		MatchParam("grant_type", "client_credential").
		MatchParam("appid", "wx1").
		Reply(200).
		JSON(map[string]any{"access_token": "tok", "expires_in": 7200})

	adapter := NewRESTAdapter("", time.Second, nil)
	res, err := adapter.Do(context.Background(), core.TransportRequest{
		Method: http.MethodGet,
		Path:   "/cgi-bin/token",
		Query: url.Values{
			"grant_type": {"client_credential"},
			"appid":      {"wx1"},
		},
	})
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if !strings.Contains(string(res.Body), `"access_token":"tok"`) {
		t.Fatalf("unexpected body %s", string(res.Body))
	}
	if res.Metadata["request_id"] == nil {
		t.Fatalf("expected request id in response metadata")
	}
	if !gock.IsDone() {
		t.Fatalf("expected all mocks to be consumed")
	}
}

func TestRESTAdapter_BackupBaseURL(t *testing.T) {
	defer gock.Off()
	gock.New(core.BackupBaseURL).
		Post("/cgi-bin/qrcode/create").
		MatchHeader("Content-Type", "application/json").
		Reply(200).
		BodyString(`{"ticket":"abc"}`)

	adapter := NewRESTAdapter(core.BackupBaseURL+"/", 0, nil)
	if adapter.BaseURL != core.BackupBaseURL {
		t.Fatalf("expected trailing slash to be trimmed, got %q", adapter.BaseURL)
	}
	if adapter.Timeout != core.DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", adapter.Timeout)
	}
	if _, err := adapter.Do(context.Background(), core.TransportRequest{
		Method: http.MethodPost,
		Path:   "cgi-bin/qrcode/create",
		Body:   []byte(`{"expire_seconds":60}`),
	}); err != nil {
		t.Fatalf("do request: %v", err)
	}
	if !gock.IsDone() {
		t.Fatalf("expected backup host to be used")
	}
}

func TestRESTAdapter_NonOKStatusIsReturnedToCaller(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.URL, time.Second, server.Client())
	res, err := adapter.Do(context.Background(), core.TransportRequest{Path: "/any"})
	if err != nil {
		t.Fatalf("expected status to be surfaced without error, got %v", err)
	}
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.StatusCode)
	}
}

func TestRESTAdapter_ConnectionFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	adapter := NewRESTAdapter(baseURL, time.Second, nil)
	_, err := adapter.Do(context.Background(), core.TransportRequest{Path: "/cgi-bin/token"})
	if err == nil {
		t.Fatalf("expected error for closed server")
	}
	if !core.IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestRESTAdapter_EnforcesResponseBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.URL, time.Second, server.Client())
	adapter.MaxResponseBodyBytes = 16
	_, err := adapter.Do(context.Background(), core.TransportRequest{Path: "/wxa/getwxacode"})
	if !core.IsTransportError(err) {
		t.Fatalf("expected transport error for oversized body, got %v", err)
	}
}

func TestRESTAdapter_RequestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.URL, time.Second, server.Client())
	_, err := adapter.Do(context.Background(), core.TransportRequest{
		Path:    "/slow",
		Timeout: 20 * time.Millisecond,
	})
	if !core.IsTransportError(err) {
		t.Fatalf("expected transport error on timeout, got %v", err)
	}
}

func TestLoggingObserver_TracesRequestAndRedactsSecrets(t *testing.T) {
	defer gock.Off()
	gock.New("https://api.weixin.qq.com").
		Get("/cgi-bin/token").
		Reply(200).
		BodyString(`{"access_token":"tok","expires_in":7200}`)

	logger := &debugLogger{}
	adapter := NewRESTAdapter("", time.Second, nil)
	adapter.Observe(NewLoggingObserver(logger), nil)

	_, err := adapter.Do(context.Background(), core.TransportRequest{
		Method: http.MethodGet,
		Path:   "/cgi-bin/token",
		Query:  url.Values{"appid": {"wx1"}, "secret": {"s3cr3t"}},
	})
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	if len(logger.messages) != 2 {
		t.Fatalf("expected request and response logs, got %#v", logger.messages)
	}
	if logger.messages[0] != "wxmp request" || logger.messages[1] != "wxmp response" {
		t.Fatalf("unexpected messages %#v", logger.messages)
	}

	var query string
	for i := 0; i+1 < len(logger.args[0]); i += 2 {
		if logger.args[0][i] == "query" {
			query, _ = logger.args[0][i+1].(string)
		}
	}
	if strings.Contains(query, "s3cr3t") {
		t.Fatalf("expected secret to be redacted, got %q", query)
	}
	if query != "appid=wx1&secret=[REDACTED]" {
		t.Fatalf("unexpected query rendering %q", query)
	}
	if logger.args[0][1] == nil || logger.args[0][1] != logger.args[1][1] {
		t.Fatalf("expected request id to be shared across logs, got %#v / %#v", logger.args[0][1], logger.args[1][1])
	}
}
