package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-wxmp/oauth"
	"github.com/goliatone/go-wxmp/signature"
)

var (
	_ gocmd.Querier[CredentialMessage, string]                     = (*CredentialQuery)(nil)
	_ gocmd.Querier[CredentialStatusMessage, CredentialStatus]     = (*CredentialStatusQuery)(nil)
	_ gocmd.Querier[URLSignatureMessage, signature.URLSignature]   = (*URLSignatureQuery)(nil)
	_ gocmd.Querier[CardSignatureMessage, signature.CardSignature] = (*CardSignatureQuery)(nil)
	_ gocmd.Querier[VerifyTokenMessage, string]                    = (*VerifyTokenQuery)(nil)
	_ gocmd.Querier[AuthorizationURLMessage, string]               = (*AuthorizationURLQuery)(nil)
	_ gocmd.Querier[UserInfoMessage, oauth.UserInfo]               = (*UserInfoQuery)(nil)
)
