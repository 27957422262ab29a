package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-wxmp/credentials"
	"github.com/goliatone/go-wxmp/oauth"
)

// MutatingService is the part of the client whose operations call the
// platform and change cached or issued state.
type MutatingService interface {
	RefreshCredential(ctx context.Context, kind credentials.Kind) (credentials.Acquisition, error)
	BeginAuthorization(ctx context.Context, req oauth.AuthorizationRequest) (oauth.Authorization, error)
	CompleteAuthorization(ctx context.Context, code, state string) (oauth.Token, oauth.StateRecord, error)
	ExchangeCode(ctx context.Context, code string) (oauth.Token, error)
	RefreshOAuthToken(ctx context.Context, refreshToken string) (oauth.Token, error)
}

type RefreshCredentialCommand struct {
	service MutatingService
}

func NewRefreshCredentialCommand(service MutatingService) *RefreshCredentialCommand {
	return &RefreshCredentialCommand{service: service}
}

func (c *RefreshCredentialCommand) Execute(ctx context.Context, msg RefreshCredentialMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: credential service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.RefreshCredential(ctx, msg.Kind)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type BeginAuthorizationCommand struct {
	service MutatingService
}

func NewBeginAuthorizationCommand(service MutatingService) *BeginAuthorizationCommand {
	return &BeginAuthorizationCommand{service: service}
}

func (c *BeginAuthorizationCommand) Execute(ctx context.Context, msg BeginAuthorizationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: authorization service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.BeginAuthorization(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ExchangeCodeCommand struct {
	service MutatingService
}

func NewExchangeCodeCommand(service MutatingService) *ExchangeCodeCommand {
	return &ExchangeCodeCommand{service: service}
}

func (c *ExchangeCodeCommand) Execute(ctx context.Context, msg ExchangeCodeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: authorization service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	var (
		out oauth.Token
		err error
	)
	if msg.State != "" {
		out, _, err = c.service.CompleteAuthorization(ctx, msg.Code, msg.State)
	} else {
		out, err = c.service.ExchangeCode(ctx, msg.Code)
	}
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RefreshOAuthTokenCommand struct {
	service MutatingService
}

func NewRefreshOAuthTokenCommand(service MutatingService) *RefreshOAuthTokenCommand {
	return &RefreshOAuthTokenCommand{service: service}
}

func (c *RefreshOAuthTokenCommand) Execute(ctx context.Context, msg RefreshOAuthTokenMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: authorization service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.RefreshOAuthToken(ctx, msg.RefreshToken)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
