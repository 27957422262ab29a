package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RefreshCredentialMessage]  = (*RefreshCredentialCommand)(nil)
	_ gocmd.Commander[BeginAuthorizationMessage] = (*BeginAuthorizationCommand)(nil)
	_ gocmd.Commander[ExchangeCodeMessage]       = (*ExchangeCodeCommand)(nil)
	_ gocmd.Commander[RefreshOAuthTokenMessage]  = (*RefreshOAuthTokenCommand)(nil)
)
