package wxmp

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goliatone/go-wxmp/core"
	"github.com/goliatone/go-wxmp/credentials"
	"github.com/goliatone/go-wxmp/oauth"
	"github.com/goliatone/go-wxmp/signature"
	"github.com/goliatone/go-wxmp/transport"
	"github.com/goliatone/go-wxmp/webhooks"
	glog "github.com/goliatone/go-logger/glog"
)

// Client owns the credential cache and every collaborator built on it. It is
// safe for concurrent use.
type Client struct {
	config          Config
	logger          core.Logger
	instrumentation core.Instrumentation
	transport       core.Transport
	store           *credentials.Store
	manager         *credentials.Manager
	engine          *signature.Engine
	verifier        webhooks.Verifier
	flow            *oauth.Flow
}

func New(cfg Config, opts ...Option) (*Client, error) {
	builder := clientBuilder{}
	for _, opt := range opts {
		if opt != nil {
			opt(&builder)
		}
	}

	provider, logger := glog.Resolve("wxmp", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("wxmp"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	if builder.clock == nil {
		builder.clock = clock.New()
	}
	if builder.nonce == nil {
		builder.nonce = core.NewNonce
	}

	resolved, err := core.LoadConfig(context.Background(), builder.configProvider, builder.optionsResolver, cfg)
	if err != nil {
		return nil, err
	}

	inst := core.NewInstrumentation(logger, builder.metrics)
	t := builder.transport
	if t == nil {
		adapter := transport.NewRESTAdapter(resolved.ResolvedBaseURL(), resolved.ResolvedTimeout(), builder.httpClient)
		if resolved.Debug {
			adapter.Observe(transport.NewLoggingObserver(logger))
		}
		adapter.Observe(builder.observers...)
		t = adapter
	}

	store := credentials.NewStore(builder.clock)
	acquirer := credentials.NewAcquirer(credentials.AcquirerConfig{
		AppID:     resolved.AppID,
		AppSecret: resolved.AppSecret,
	}, t, store, credentials.WithInstrumentation(inst))
	manager := credentials.NewManager(store, acquirer)

	flow := oauth.NewFlow(oauth.FlowConfig{
		AppID:       resolved.AppID,
		AppSecret:   resolved.AppSecret,
		RedirectURL: resolved.RedirectURL,
	}, t, oauth.WithStateStore(builder.stateStore), oauth.WithInstrumentation(inst))

	return &Client{
		config:          resolved,
		logger:          logger,
		instrumentation: inst,
		transport:       t,
		store:           store,
		manager:         manager,
		engine:          signature.NewEngine(store, signature.WithClock(builder.clock), signature.WithNonce(builder.nonce)),
		verifier:        webhooks.NewVerifier(resolved.Token),
		flow:            flow,
	}, nil
}

func (c *Client) Config() Config {
	return c.config
}

func (c *Client) Logger() core.Logger {
	return c.logger
}

// AppID is the platform application id the client was built with.
func (c *Client) AppID() string {
	return c.config.AppID
}

func (c *Client) Credentials() *credentials.Manager {
	return c.manager
}

func (c *Client) Verifier() webhooks.Verifier {
	return c.verifier
}

func (c *Client) OAuth() *oauth.Flow {
	return c.flow
}

// AccessToken returns the cached access token, acquiring a new one when it
// is missing or inside the refresh margin.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	return c.manager.Get(ctx, credentials.KindAccessToken)
}

// RefreshAccessToken always calls the platform.
func (c *Client) RefreshAccessToken(ctx context.Context) (credentials.Acquisition, error) {
	return c.manager.Refresh(ctx, credentials.KindAccessToken)
}

func (c *Client) IsAccessTokenExpired() bool {
	return c.manager.IsExpired(credentials.KindAccessToken)
}

func (c *Client) JSAPITicket(ctx context.Context) (string, error) {
	return c.manager.Get(ctx, credentials.KindJSAPITicket)
}

func (c *Client) RefreshJSAPITicket(ctx context.Context) (credentials.Acquisition, error) {
	return c.manager.Refresh(ctx, credentials.KindJSAPITicket)
}

func (c *Client) IsJSAPITicketExpired() bool {
	return c.manager.IsExpired(credentials.KindJSAPITicket)
}

func (c *Client) CardTicket(ctx context.Context) (string, error) {
	return c.manager.Get(ctx, credentials.KindCardTicket)
}

func (c *Client) RefreshCardTicket(ctx context.Context) (credentials.Acquisition, error) {
	return c.manager.Refresh(ctx, credentials.KindCardTicket)
}

func (c *Client) IsCardTicketExpired() bool {
	return c.manager.IsExpired(credentials.KindCardTicket)
}

func (c *Client) Credential(ctx context.Context, kind credentials.Kind) (string, error) {
	return c.manager.Get(ctx, kind)
}

func (c *Client) RefreshCredential(ctx context.Context, kind credentials.Kind) (credentials.Acquisition, error) {
	return c.manager.Refresh(ctx, kind)
}

func (c *Client) IsCredentialExpired(kind credentials.Kind) bool {
	return c.manager.IsExpired(kind)
}

// URLSignature signs with the cached jsapi ticket unless req carries one.
// It never acquires a ticket.
func (c *Client) URLSignature(req signature.URLSignatureRequest) (signature.URLSignature, error) {
	return c.engine.URL(req)
}

func (c *Client) CardSignature(req signature.CardSignatureRequest) (signature.CardSignature, error) {
	return c.engine.Card(req)
}

// Timestamp is the current Unix time in seconds from the client clock.
func (c *Client) Timestamp() string {
	return c.engine.Timestamp()
}

func (c *Client) CheckSignature(sig, timestamp, nonce string) (bool, error) {
	return c.verifier.CheckSignature(sig, timestamp, nonce)
}

func (c *Client) VerifyToken(sig, echostr, timestamp, nonce string) string {
	return c.verifier.VerifyToken(sig, echostr, timestamp, nonce)
}

func (c *Client) AuthorizationURL(req oauth.AuthorizationRequest) (string, error) {
	return c.flow.AuthorizationURL(req)
}

func (c *Client) BeginAuthorization(ctx context.Context, req oauth.AuthorizationRequest) (oauth.Authorization, error) {
	return c.flow.Begin(ctx, req)
}

func (c *Client) CompleteAuthorization(ctx context.Context, code, state string) (oauth.Token, oauth.StateRecord, error) {
	return c.flow.Complete(ctx, code, state)
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (oauth.Token, error) {
	return c.flow.Exchange(ctx, code)
}

func (c *Client) RefreshOAuthToken(ctx context.Context, refreshToken string) (oauth.Token, error) {
	return c.flow.Refresh(ctx, refreshToken)
}

func (c *Client) UserInfo(ctx context.Context, req oauth.UserInfoRequest) (oauth.UserInfo, error) {
	return c.flow.UserInfo(ctx, req)
}

func (c *Client) IntrospectOAuthToken(ctx context.Context, req oauth.IntrospectRequest) error {
	return c.flow.Introspect(ctx, req)
}

func (c *Client) observe(ctx context.Context, startedAt time.Time, operation string, err error) {
	c.instrumentation.ObserveOperation(ctx, startedAt, operation, err, nil)
}
