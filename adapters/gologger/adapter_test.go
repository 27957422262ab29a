package gologger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	glog "github.com/goliatone/go-logger/glog"
)

func TestResolveDeterministicFallback(t *testing.T) {
	loggerOnly := &capturingLogger{id: "logger"}
	providerLogger := &capturingLogger{id: "provider"}
	provider := &capturingProvider{logger: providerLogger}

	var resolvedProvider glog.LoggerProvider
	_, resolved := Resolve("wxmp", provider, loggerOnly)
	got := resolved.(*capturingLogger)
	if got.id != "provider" {
		t.Fatalf("expected provider logger precedence, got %q", got.id)
	}

	resolvedProvider, resolved = Resolve("wxmp", nil, loggerOnly)
	got = resolved.(*capturingLogger)
	if got.id != "logger" {
		t.Fatalf("expected direct logger when provider is nil, got %q", got.id)
	}
	if resolvedProvider == nil {
		t.Fatalf("expected provider wrapper from logger")
	}

	_, resolved = Resolve("wxmp", nil, nil)
	if resolved == nil {
		t.Fatalf("expected nop logger fallback")
	}
}

func TestLogrusProviderWritesFields(t *testing.T) {
	var buf bytes.Buffer
	root, err := NewLogrusWriter(&buf, "debug", true)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	provider := NewProvider(root)

	_, resolved := Resolve("wxmp", provider, nil)
	resolved.Info("wxmp request", "method", "GET", "path", "/cgi-bin/token")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record %q: %v", buf.String(), err)
	}
	if record["msg"] != "wxmp request" || record["logger"] != "wxmp" {
		t.Fatalf("unexpected record %#v", record)
	}
	if record["method"] != "GET" || record["path"] != "/cgi-bin/token" {
		t.Fatalf("expected key/value fields, got %#v", record)
	}
}

func TestLogrusHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogrusWriter(&buf, "warn", false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	logger.Warn("shown", "odd")
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), "extra=odd") {
		t.Fatalf("expected warn record with dangling arg, got %q", buf.String())
	}
	logger.Fatal("still running")
	if !strings.Contains(buf.String(), "still running") {
		t.Fatalf("expected fatal record")
	}
}

func TestNewLogrusWriter_RejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogrusWriter(nil, "loud", false); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

var (
	_ glog.Logger         = (*capturingLogger)(nil)
	_ glog.LoggerProvider = (*capturingProvider)(nil)
)

type capturingProvider struct {
	logger *capturingLogger
}

func (p *capturingProvider) GetLogger(string) glog.Logger {
	if p == nil || p.logger == nil {
		return glog.Nop()
	}
	return p.logger
}

type infoCall struct {
	msg  string
	args []any
}

type capturingLogger struct {
	id       string
	lastInfo infoCall
}

func (l *capturingLogger) Trace(string, ...any) {}
func (l *capturingLogger) Debug(string, ...any) {}
func (l *capturingLogger) Warn(string, ...any)  {}
func (l *capturingLogger) Error(string, ...any) {}
func (l *capturingLogger) Fatal(string, ...any) {}

func (l *capturingLogger) Info(msg string, args ...any) {
	l.lastInfo = infoCall{
		msg:  msg,
		args: append([]any(nil), args...),
	}
}

func (l *capturingLogger) WithContext(context.Context) glog.Logger {
	return l
}
