package query

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-wxmp/core"
	"github.com/goliatone/go-wxmp/credentials"
	"github.com/goliatone/go-wxmp/oauth"
	"github.com/goliatone/go-wxmp/signature"
)

type stubReader struct {
	values  map[credentials.Kind]string
	expired map[credentials.Kind]bool
	err     error
}

func (s stubReader) Credential(_ context.Context, kind credentials.Kind) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[kind], nil
}

func (s stubReader) IsCredentialExpired(kind credentials.Kind) bool {
	return s.expired[kind]
}

func (s stubReader) URLSignature(req signature.URLSignatureRequest) (signature.URLSignature, error) {
	return signature.URLSignature{URL: req.URL, Signature: "SIG"}, nil
}

func (s stubReader) CardSignature(req signature.CardSignatureRequest) (signature.CardSignature, error) {
	return signature.CardSignature{Code: req.Code, Signature: "CARD"}, nil
}

func (s stubReader) VerifyToken(sig, echostr, _, _ string) string {
	if sig == "good" {
		return echostr
	}
	return "error"
}

func (s stubReader) AuthorizationURL(req oauth.AuthorizationRequest) (string, error) {
	return "https://open.weixin.qq.com/connect/oauth2/authorize?state=" + req.State, nil
}

func (s stubReader) UserInfo(_ context.Context, req oauth.UserInfoRequest) (oauth.UserInfo, error) {
	return oauth.UserInfo{OpenID: req.OpenID, Nickname: "nick"}, nil
}

func TestCredentialQuery_ReturnsValue(t *testing.T) {
	reader := stubReader{values: map[credentials.Kind]string{credentials.KindAccessToken: "TOKEN"}}
	got, err := NewCredentialQuery(reader).Query(context.Background(), CredentialMessage{Kind: credentials.KindAccessToken})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got != "TOKEN" {
		t.Fatalf("expected TOKEN, got %q", got)
	}
}

func TestCredentialQuery_PropagatesReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewCredentialQuery(stubReader{err: boom}).Query(context.Background(), CredentialMessage{Kind: credentials.KindCardTicket})
	if !errors.Is(err, boom) {
		t.Fatalf("expected reader error, got %v", err)
	}
}

func TestCredentialStatusQuery_ReportsExpiry(t *testing.T) {
	reader := stubReader{expired: map[credentials.Kind]bool{credentials.KindJSAPITicket: true}}
	q := NewCredentialStatusQuery(reader)

	status, err := q.Query(context.Background(), CredentialStatusMessage{Kind: credentials.KindJSAPITicket})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !status.Expired || status.Kind != credentials.KindJSAPITicket {
		t.Fatalf("unexpected status %#v", status)
	}
	status, err = q.Query(context.Background(), CredentialStatusMessage{Kind: credentials.KindAccessToken})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if status.Expired {
		t.Fatalf("expected access token to be fresh")
	}
}

func TestQueries_DelegateToReader(t *testing.T) {
	ctx := context.Background()
	reader := stubReader{}

	urlSig, err := NewURLSignatureQuery(reader).Query(ctx, URLSignatureMessage{Request: signature.URLSignatureRequest{URL: "http://a.b/c"}})
	if err != nil || urlSig.Signature != "SIG" {
		t.Fatalf("url signature: %#v %v", urlSig, err)
	}
	cardSig, err := NewCardSignatureQuery(reader).Query(ctx, CardSignatureMessage{Request: signature.CardSignatureRequest{CardID: "card", Code: "c1"}})
	if err != nil || cardSig.Signature != "CARD" || cardSig.Code != "c1" {
		t.Fatalf("card signature: %#v %v", cardSig, err)
	}
	echo, err := NewVerifyTokenQuery(reader).Query(ctx, VerifyTokenMessage{Signature: "good", EchoStr: "echo"})
	if err != nil || echo != "echo" {
		t.Fatalf("verify token: %q %v", echo, err)
	}
	echo, _ = NewVerifyTokenQuery(reader).Query(ctx, VerifyTokenMessage{Signature: "bad", EchoStr: "echo"})
	if echo != "error" {
		t.Fatalf("expected error literal, got %q", echo)
	}
	link, err := NewAuthorizationURLQuery(reader).Query(ctx, AuthorizationURLMessage{Request: oauth.AuthorizationRequest{State: "s1"}})
	if err != nil || link == "" {
		t.Fatalf("authorization url: %q %v", link, err)
	}
	info, err := NewUserInfoQuery(reader).Query(ctx, UserInfoMessage{Request: oauth.UserInfoRequest{AccessToken: "a", OpenID: "o"}})
	if err != nil || info.OpenID != "o" {
		t.Fatalf("userinfo: %#v %v", info, err)
	}
}

func TestQueries_ValidateInput(t *testing.T) {
	ctx := context.Background()
	reader := stubReader{}
	cases := []func() error{
		func() error {
			_, err := NewCredentialQuery(reader).Query(ctx, CredentialMessage{Kind: "bogus"})
			return err
		},
		func() error {
			_, err := NewCredentialStatusQuery(reader).Query(ctx, CredentialStatusMessage{})
			return err
		},
		func() error {
			_, err := NewURLSignatureQuery(reader).Query(ctx, URLSignatureMessage{})
			return err
		},
		func() error {
			_, err := NewUserInfoQuery(reader).Query(ctx, UserInfoMessage{Request: oauth.UserInfoRequest{AccessToken: "a"}})
			return err
		},
	}
	for i, run := range cases {
		err := run()
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) {
			t.Fatalf("case %d: expected rich error, got %T", i, err)
		}
		if rich.TextCode != core.ErrorBadInput {
			t.Fatalf("case %d: expected %s, got %s", i, core.ErrorBadInput, rich.TextCode)
		}
	}
}

func TestQueries_NilReaderReturnsRichError(t *testing.T) {
	_, err := NewCredentialQuery(nil).Query(context.Background(), CredentialMessage{Kind: credentials.KindAccessToken})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error, got %T", err)
	}
	if rich.TextCode != core.ErrorInternal {
		t.Fatalf("expected %s, got %s", core.ErrorInternal, rich.TextCode)
	}
}
