package oauth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-wxmp/core"
)

const (
	AuthorizeEndpoint = "https://open.weixin.qq.com/connect/oauth2/authorize"
	authorizeFragment = "#wechat_redirect"

	AccessTokenPath  = "/sns/oauth2/access_token"
	RefreshTokenPath = "/sns/oauth2/refresh_token"
	UserInfoPath     = "/sns/userinfo"
	IntrospectPath   = "/sns/auth"
)

type FlowConfig struct {
	AppID       string
	AppSecret   string
	RedirectURL string
}

type Flow struct {
	config          FlowConfig
	transport       core.Transport
	states          *StateStore
	instrumentation core.Instrumentation
}

type FlowOption func(*Flow)

func WithStateStore(store *StateStore) FlowOption {
	return func(f *Flow) {
		if store != nil {
			f.states = store
		}
	}
}

func WithInstrumentation(inst core.Instrumentation) FlowOption {
	return func(f *Flow) {
		f.instrumentation = inst
	}
}

func NewFlow(config FlowConfig, transport core.Transport, opts ...FlowOption) *Flow {
	flow := &Flow{
		config:    config,
		transport: transport,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(flow)
		}
	}
	if flow.states == nil {
		flow.states = NewStateStore(DefaultStateTTL)
	}
	return flow
}

func (f *Flow) States() *StateStore {
	return f.states
}

// AuthorizationURL builds the authorize redirect. Parameter order is fixed
// and the URL always ends with the #wechat_redirect fragment.
func (f *Flow) AuthorizationURL(req AuthorizationRequest) (string, error) {
	redirectURL := strings.TrimSpace(req.RedirectURL)
	if redirectURL == "" {
		redirectURL = strings.TrimSpace(f.config.RedirectURL)
	}
	if redirectURL == "" {
		return "", core.ConfigurationError("oauth: redirect url is required")
	}
	if strings.TrimSpace(f.config.AppID) == "" {
		return "", core.ConfigurationError("oauth: app id is required")
	}
	scope := req.Scope
	if scope == "" {
		scope = ScopeBase
	}

	var b strings.Builder
	b.WriteString(AuthorizeEndpoint)
	b.WriteString("?appid=")
	b.WriteString(url.QueryEscape(f.config.AppID))
	b.WriteString("&response_type=code")
	b.WriteString("&redirect_uri=")
	b.WriteString(url.QueryEscape(redirectURL))
	b.WriteString("&scope=")
	b.WriteString(url.QueryEscape(string(scope)))
	if req.State != "" {
		b.WriteString("&state=")
		b.WriteString(url.QueryEscape(req.State))
	}
	if req.ForcePopup {
		b.WriteString("&forcePopup=true")
	}
	b.WriteString(authorizeFragment)
	return b.String(), nil
}

// Begin issues a one-time state (unless req carries one) and returns the
// redirect URL bound to it.
func (f *Flow) Begin(ctx context.Context, req AuthorizationRequest) (Authorization, error) {
	redirectURL := strings.TrimSpace(req.RedirectURL)
	if redirectURL == "" {
		redirectURL = strings.TrimSpace(f.config.RedirectURL)
	}
	if redirectURL == "" {
		return Authorization{}, core.ConfigurationError("oauth: redirect url is required")
	}
	record, err := f.states.Issue(ctx, StateRecord{
		State:       req.State,
		Scope:       req.Scope,
		RedirectURL: redirectURL,
	})
	if err != nil {
		return Authorization{}, err
	}
	req.State = record.State
	req.RedirectURL = redirectURL
	target, err := f.AuthorizationURL(req)
	if err != nil {
		return Authorization{}, err
	}
	return Authorization{URL: target, State: record.State}, nil
}

// Complete redeems the callback state issued by Begin and exchanges code.
func (f *Flow) Complete(ctx context.Context, code, state string) (Token, StateRecord, error) {
	record, err := f.states.Consume(ctx, state)
	if err != nil {
		return Token{}, StateRecord{}, err
	}
	token, err := f.Exchange(ctx, code)
	if err != nil {
		return Token{}, record, err
	}
	return token, record, nil
}

func (f *Flow) Exchange(ctx context.Context, code string) (token Token, err error) {
	startedAt := time.Now()
	defer func() {
		f.instrumentation.ObserveOperation(ctx, startedAt, "oauth.exchange", err, map[string]any{"openid": token.OpenID})
	}()
	if strings.TrimSpace(code) == "" {
		return Token{}, core.BadInputError("oauth: authorization code is required")
	}
	if err := f.requireCredentials(true); err != nil {
		return Token{}, err
	}
	err = f.get(ctx, "oauth: exchange code", AccessTokenPath, url.Values{
		"appid":      {f.config.AppID},
		"secret":     {f.config.AppSecret},
		"grant_type": {"authorization_code"},
		"code":       {code},
	}, &token)
	return token, err
}

func (f *Flow) Refresh(ctx context.Context, refreshToken string) (token Token, err error) {
	startedAt := time.Now()
	defer func() {
		f.instrumentation.ObserveOperation(ctx, startedAt, "oauth.refresh", err, map[string]any{"openid": token.OpenID})
	}()
	if strings.TrimSpace(refreshToken) == "" {
		return Token{}, core.BadInputError("oauth: refresh token is required")
	}
	if err := f.requireCredentials(false); err != nil {
		return Token{}, err
	}
	err = f.get(ctx, "oauth: refresh token", RefreshTokenPath, url.Values{
		"appid":         {f.config.AppID},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}, &token)
	return token, err
}

func (f *Flow) UserInfo(ctx context.Context, req UserInfoRequest) (info UserInfo, err error) {
	startedAt := time.Now()
	defer func() {
		f.instrumentation.ObserveOperation(ctx, startedAt, "oauth.userinfo", err, map[string]any{"openid": req.OpenID})
	}()
	if strings.TrimSpace(req.AccessToken) == "" || strings.TrimSpace(req.OpenID) == "" {
		return UserInfo{}, core.BadInputError("oauth: access token and openid are required")
	}
	lang := strings.TrimSpace(req.Lang)
	if lang == "" {
		lang = DefaultLang
	}
	err = f.get(ctx, "oauth: user info", UserInfoPath, url.Values{
		"access_token": {req.AccessToken},
		"openid":       {req.OpenID},
		"lang":         {lang},
	}, &info)
	return info, err
}

// Introspect succeeds when the platform still accepts the user token.
func (f *Flow) Introspect(ctx context.Context, req IntrospectRequest) (err error) {
	startedAt := time.Now()
	defer func() {
		f.instrumentation.ObserveOperation(ctx, startedAt, "oauth.introspect", err, map[string]any{"openid": req.OpenID})
	}()
	if strings.TrimSpace(req.AccessToken) == "" || strings.TrimSpace(req.OpenID) == "" {
		return core.BadInputError("oauth: access token and openid are required")
	}
	return f.get(ctx, "oauth: introspect", IntrospectPath, url.Values{
		"access_token": {req.AccessToken},
		"openid":       {req.OpenID},
	}, nil)
}

func (f *Flow) get(ctx context.Context, operation, path string, query url.Values, out any) error {
	if f.transport == nil {
		return core.ConfigurationError("oauth: transport is required")
	}
	res, err := f.transport.Do(ctx, core.TransportRequest{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
	if err != nil {
		return err
	}
	return core.DecodeResponse(operation, res, out)
}

func (f *Flow) requireCredentials(needSecret bool) error {
	if strings.TrimSpace(f.config.AppID) == "" {
		return core.ConfigurationError("oauth: app id is required")
	}
	if needSecret && strings.TrimSpace(f.config.AppSecret) == "" {
		return core.ConfigurationError("oauth: app secret is required")
	}
	return nil
}
