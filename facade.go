package wxmp

import (
	"fmt"

	wxmpcommand "github.com/goliatone/go-wxmp/command"
	wxmpquery "github.com/goliatone/go-wxmp/query"
)

type CommandQueryService interface {
	wxmpcommand.MutatingService
	wxmpquery.CredentialReader
	wxmpquery.SignatureReader
	wxmpquery.WebhookReader
	wxmpquery.AuthorizationReader
}

type Commands struct {
	RefreshCredential  *wxmpcommand.RefreshCredentialCommand
	BeginAuthorization *wxmpcommand.BeginAuthorizationCommand
	ExchangeCode       *wxmpcommand.ExchangeCodeCommand
	RefreshOAuthToken  *wxmpcommand.RefreshOAuthTokenCommand
}

type Queries struct {
	Credential       *wxmpquery.CredentialQuery
	CredentialStatus *wxmpquery.CredentialStatusQuery
	URLSignature     *wxmpquery.URLSignatureQuery
	CardSignature    *wxmpquery.CardSignatureQuery
	VerifyToken      *wxmpquery.VerifyTokenQuery
	AuthorizationURL *wxmpquery.AuthorizationURLQuery
	UserInfo         *wxmpquery.UserInfoQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("wxmp: command/query service is required")
	}
	facade := &Facade{service: service}
	facade.commands = Commands{
		RefreshCredential:  wxmpcommand.NewRefreshCredentialCommand(service),
		BeginAuthorization: wxmpcommand.NewBeginAuthorizationCommand(service),
		ExchangeCode:       wxmpcommand.NewExchangeCodeCommand(service),
		RefreshOAuthToken:  wxmpcommand.NewRefreshOAuthTokenCommand(service),
	}
	facade.queries = Queries{
		Credential:       wxmpquery.NewCredentialQuery(service),
		CredentialStatus: wxmpquery.NewCredentialStatusQuery(service),
		URLSignature:     wxmpquery.NewURLSignatureQuery(service),
		CardSignature:    wxmpquery.NewCardSignatureQuery(service),
		VerifyToken:      wxmpquery.NewVerifyTokenQuery(service),
		AuthorizationURL: wxmpquery.NewAuthorizationURLQuery(service),
		UserInfo:         wxmpquery.NewUserInfoQuery(service),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ CommandQueryService = (*Client)(nil)
