package core

import (
	"errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestDecodeResponse_NonOKStatusIsTransportError(t *testing.T) {
	err := DecodeResponse("access_token.acquire", TransportResponse{StatusCode: http.StatusServiceUnavailable}, nil)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if !IsTransportError(err) {
		t.Fatalf("expected transport error classification, got %v", err)
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected code %d, got %d", http.StatusServiceUnavailable, rich.Code)
	}
	if rich.Category != goerrors.CategoryExternal {
		t.Fatalf("expected external category, got %q", rich.Category)
	}
}

func TestDecodeResponse_NonzeroErrcodeIsPlatformError(t *testing.T) {
	res := TransportResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"errcode":40013,"errmsg":"invalid appid"}`),
	}
	err := DecodeResponse("access_token.acquire", res, nil)
	if err == nil {
		t.Fatalf("expected platform error")
	}
	platformErr, ok := AsPlatformError(err)
	if !ok {
		t.Fatalf("expected platform error, got %T %v", err, err)
	}
	if platformErr.Code != 40013 || platformErr.Message != "invalid appid" {
		t.Fatalf("unexpected platform error payload: %#v", platformErr)
	}
	if IsTransportError(err) {
		t.Fatalf("platform error must not classify as transport error")
	}
}

func TestDecodeResponse_DecodesBody(t *testing.T) {
	res := TransportResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"errcode":0,"errmsg":"ok","ticket":"t1","expires_in":7200}`),
	}
	var out struct {
		Ticket    string `json:"ticket"`
		ExpiresIn int64  `json:"expires_in"`
	}
	if err := DecodeResponse("ticket.acquire", res, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Ticket != "t1" || out.ExpiresIn != 7200 {
		t.Fatalf("unexpected decoded body: %#v", out)
	}
}

func TestDecodeResponse_InvalidJSON(t *testing.T) {
	err := DecodeResponse("userinfo", TransportResponse{StatusCode: http.StatusOK, Body: []byte("<html>")}, nil)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != ErrorDecodeFailed {
		t.Fatalf("expected %q text code, got %v", ErrorDecodeFailed, err)
	}
}

func TestTransportError_WrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := TransportError("oauth.exchange", 0, cause)
	if !IsTransportError(err) {
		t.Fatalf("expected transport error")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Code != http.StatusBadGateway {
		t.Fatalf("expected bad gateway code when no response was received, got %v", err)
	}
}

func TestConfigurationError_Classification(t *testing.T) {
	err := ConfigurationError("webhooks: token is required")
	if !IsConfigurationError(err) {
		t.Fatalf("expected configuration error")
	}
	if IsTransportError(err) {
		t.Fatalf("configuration error must not classify as transport error")
	}
	if _, ok := AsPlatformError(err); ok {
		t.Fatalf("configuration error must not classify as platform error")
	}
}
