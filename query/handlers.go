package query

import (
	"context"

	"github.com/goliatone/go-wxmp/credentials"
	"github.com/goliatone/go-wxmp/oauth"
	"github.com/goliatone/go-wxmp/signature"
)

type CredentialReader interface {
	Credential(ctx context.Context, kind credentials.Kind) (string, error)
	IsCredentialExpired(kind credentials.Kind) bool
}

type SignatureReader interface {
	URLSignature(req signature.URLSignatureRequest) (signature.URLSignature, error)
	CardSignature(req signature.CardSignatureRequest) (signature.CardSignature, error)
}

type WebhookReader interface {
	VerifyToken(sig, echostr, timestamp, nonce string) string
}

type AuthorizationReader interface {
	AuthorizationURL(req oauth.AuthorizationRequest) (string, error)
	UserInfo(ctx context.Context, req oauth.UserInfoRequest) (oauth.UserInfo, error)
}

type CredentialQuery struct {
	reader CredentialReader
}

func NewCredentialQuery(reader CredentialReader) *CredentialQuery {
	return &CredentialQuery{reader: reader}
}

// Query returns the cached value, refreshing it first when expired.
func (q *CredentialQuery) Query(ctx context.Context, msg CredentialMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: credential reader is required")
	}
	if err := msg.Validate(); err != nil {
		return "", err
	}
	return q.reader.Credential(ctx, msg.Kind)
}

type CredentialStatusQuery struct {
	reader CredentialReader
}

func NewCredentialStatusQuery(reader CredentialReader) *CredentialStatusQuery {
	return &CredentialStatusQuery{reader: reader}
}

func (q *CredentialStatusQuery) Query(_ context.Context, msg CredentialStatusMessage) (CredentialStatus, error) {
	if q == nil || q.reader == nil {
		return CredentialStatus{}, queryDependencyError("query: credential reader is required")
	}
	if err := msg.Validate(); err != nil {
		return CredentialStatus{}, err
	}
	return CredentialStatus{Kind: msg.Kind, Expired: q.reader.IsCredentialExpired(msg.Kind)}, nil
}

type URLSignatureQuery struct {
	reader SignatureReader
}

func NewURLSignatureQuery(reader SignatureReader) *URLSignatureQuery {
	return &URLSignatureQuery{reader: reader}
}

func (q *URLSignatureQuery) Query(_ context.Context, msg URLSignatureMessage) (signature.URLSignature, error) {
	if q == nil || q.reader == nil {
		return signature.URLSignature{}, queryDependencyError("query: signature reader is required")
	}
	if err := msg.Validate(); err != nil {
		return signature.URLSignature{}, err
	}
	return q.reader.URLSignature(msg.Request)
}

type CardSignatureQuery struct {
	reader SignatureReader
}

func NewCardSignatureQuery(reader SignatureReader) *CardSignatureQuery {
	return &CardSignatureQuery{reader: reader}
}

func (q *CardSignatureQuery) Query(_ context.Context, msg CardSignatureMessage) (signature.CardSignature, error) {
	if q == nil || q.reader == nil {
		return signature.CardSignature{}, queryDependencyError("query: signature reader is required")
	}
	return q.reader.CardSignature(msg.Request)
}

type VerifyTokenQuery struct {
	reader WebhookReader
}

func NewVerifyTokenQuery(reader WebhookReader) *VerifyTokenQuery {
	return &VerifyTokenQuery{reader: reader}
}

func (q *VerifyTokenQuery) Query(_ context.Context, msg VerifyTokenMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: webhook reader is required")
	}
	return q.reader.VerifyToken(msg.Signature, msg.EchoStr, msg.Timestamp, msg.Nonce), nil
}

type AuthorizationURLQuery struct {
	reader AuthorizationReader
}

func NewAuthorizationURLQuery(reader AuthorizationReader) *AuthorizationURLQuery {
	return &AuthorizationURLQuery{reader: reader}
}

func (q *AuthorizationURLQuery) Query(_ context.Context, msg AuthorizationURLMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: authorization reader is required")
	}
	return q.reader.AuthorizationURL(msg.Request)
}

type UserInfoQuery struct {
	reader AuthorizationReader
}

func NewUserInfoQuery(reader AuthorizationReader) *UserInfoQuery {
	return &UserInfoQuery{reader: reader}
}

func (q *UserInfoQuery) Query(ctx context.Context, msg UserInfoMessage) (oauth.UserInfo, error) {
	if q == nil || q.reader == nil {
		return oauth.UserInfo{}, queryDependencyError("query: authorization reader is required")
	}
	if err := msg.Validate(); err != nil {
		return oauth.UserInfo{}, err
	}
	return q.reader.UserInfo(ctx, msg.Request)
}
