package command

import (
	"strings"

	"github.com/goliatone/go-wxmp/credentials"
	"github.com/goliatone/go-wxmp/oauth"
)

const (
	TypeRefreshCredential  = "wxmp.command.credential.refresh"
	TypeBeginAuthorization = "wxmp.command.oauth.begin"
	TypeExchangeCode       = "wxmp.command.oauth.exchange"
	TypeRefreshOAuthToken  = "wxmp.command.oauth.refresh"
)

type RefreshCredentialMessage struct {
	Kind credentials.Kind
}

func (RefreshCredentialMessage) Type() string { return TypeRefreshCredential }

func (m RefreshCredentialMessage) Validate() error {
	if !m.Kind.Valid() {
		return commandValidationError("kind", "credential kind must be access_token, jsapi_ticket or card_ticket")
	}
	return nil
}

type BeginAuthorizationMessage struct {
	Request oauth.AuthorizationRequest
}

func (BeginAuthorizationMessage) Type() string { return TypeBeginAuthorization }

func (m BeginAuthorizationMessage) Validate() error {
	switch m.Request.Scope {
	case "", oauth.ScopeBase, oauth.ScopeUserInfo:
		return nil
	default:
		return commandValidationError("scope", "scope must be snsapi_base or snsapi_userinfo")
	}
}

// ExchangeCodeMessage redeems an authorization code. When State is set it
// must be a state issued by BeginAuthorization.
type ExchangeCodeMessage struct {
	Code  string
	State string
}

func (ExchangeCodeMessage) Type() string { return TypeExchangeCode }

func (m ExchangeCodeMessage) Validate() error {
	if strings.TrimSpace(m.Code) == "" {
		return commandValidationError("code", "authorization code is required")
	}
	return nil
}

type RefreshOAuthTokenMessage struct {
	RefreshToken string
}

func (RefreshOAuthTokenMessage) Type() string { return TypeRefreshOAuthToken }

func (m RefreshOAuthTokenMessage) Validate() error {
	if strings.TrimSpace(m.RefreshToken) == "" {
		return commandValidationError("refresh_token", "refresh token is required")
	}
	return nil
}
