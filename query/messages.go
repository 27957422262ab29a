package query

import (
	"strings"

	"github.com/goliatone/go-wxmp/credentials"
	"github.com/goliatone/go-wxmp/oauth"
	"github.com/goliatone/go-wxmp/signature"
)

const (
	TypeCredential       = "wxmp.query.credential.get"
	TypeCredentialStatus = "wxmp.query.credential.status"
	TypeURLSignature     = "wxmp.query.signature.url"
	TypeCardSignature    = "wxmp.query.signature.card"
	TypeVerifyToken      = "wxmp.query.webhook.verify_token"
	TypeAuthorizationURL = "wxmp.query.oauth.authorization_url"
	TypeUserInfo         = "wxmp.query.oauth.userinfo"
)

type CredentialMessage struct {
	Kind credentials.Kind
}

func (CredentialMessage) Type() string { return TypeCredential }

func (m CredentialMessage) Validate() error {
	return validateKind(m.Kind)
}

type CredentialStatusMessage struct {
	Kind credentials.Kind
}

func (CredentialStatusMessage) Type() string { return TypeCredentialStatus }

func (m CredentialStatusMessage) Validate() error {
	return validateKind(m.Kind)
}

// CredentialStatus never exposes the credential value.
type CredentialStatus struct {
	Kind    credentials.Kind
	Expired bool
}

type URLSignatureMessage struct {
	Request signature.URLSignatureRequest
}

func (URLSignatureMessage) Type() string { return TypeURLSignature }

func (m URLSignatureMessage) Validate() error {
	if strings.TrimSpace(m.Request.URL) == "" {
		return queryValidationError("url", "url is required")
	}
	return nil
}

type CardSignatureMessage struct {
	Request signature.CardSignatureRequest
}

func (CardSignatureMessage) Type() string { return TypeCardSignature }

type VerifyTokenMessage struct {
	Signature string
	EchoStr   string
	Timestamp string
	Nonce     string
}

func (VerifyTokenMessage) Type() string { return TypeVerifyToken }

type AuthorizationURLMessage struct {
	Request oauth.AuthorizationRequest
}

func (AuthorizationURLMessage) Type() string { return TypeAuthorizationURL }

type UserInfoMessage struct {
	Request oauth.UserInfoRequest
}

func (UserInfoMessage) Type() string { return TypeUserInfo }

func (m UserInfoMessage) Validate() error {
	if strings.TrimSpace(m.Request.AccessToken) == "" {
		return queryValidationError("access_token", "access token is required")
	}
	if strings.TrimSpace(m.Request.OpenID) == "" {
		return queryValidationError("openid", "openid is required")
	}
	return nil
}

func validateKind(kind credentials.Kind) error {
	if !kind.Valid() {
		return queryValidationError("kind", "credential kind must be access_token, jsapi_ticket or card_ticket")
	}
	return nil
}
