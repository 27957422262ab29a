package credentials

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-wxmp/core"
)

const (
	AccessTokenPath = "/cgi-bin/token"
	TicketPath      = "/cgi-bin/ticket/getticket"
)

// AccessTokenSource yields a usable access token for ticket acquisition.
type AccessTokenSource func(ctx context.Context) (string, error)

// Acquisition is the outcome of one live platform call. Degraded is set when
// the platform answered without a value or lifetime and the store was left
// untouched; Value then holds whatever the store already had.
type Acquisition struct {
	Kind      Kind
	Value     string
	ExpiresAt time.Time
	Degraded  bool
}

type AcquirerConfig struct {
	AppID     string
	AppSecret string
}

type Acquirer struct {
	config          AcquirerConfig
	transport       core.Transport
	store           *Store
	accessToken     AccessTokenSource
	instrumentation core.Instrumentation
}

type AcquirerOption func(*Acquirer)

func WithAccessTokenSource(source AccessTokenSource) AcquirerOption {
	return func(a *Acquirer) {
		a.accessToken = source
	}
}

func WithInstrumentation(inst core.Instrumentation) AcquirerOption {
	return func(a *Acquirer) {
		a.instrumentation = inst
	}
}

func NewAcquirer(config AcquirerConfig, transport core.Transport, store *Store, opts ...AcquirerOption) *Acquirer {
	acquirer := &Acquirer{
		config:    config,
		transport: transport,
		store:     store,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(acquirer)
		}
	}
	return acquirer
}

// Acquire always performs a live call; callers decide whether the cached
// value is still good.
func (a *Acquirer) Acquire(ctx context.Context, kind Kind) (result Acquisition, err error) {
	if a == nil {
		return Acquisition{}, core.ConfigurationError("credentials: acquirer is nil")
	}
	startedAt := time.Now()
	defer func() {
		a.instrumentation.ObserveOperation(ctx, startedAt, "credentials.acquire", err, map[string]any{
			"kind":     string(kind),
			"degraded": result.Degraded,
		})
	}()

	if a.transport == nil {
		return Acquisition{}, core.ConfigurationError("credentials: transport is required")
	}
	if a.store == nil {
		return Acquisition{}, core.ConfigurationError("credentials: store is required")
	}
	switch kind {
	case KindAccessToken:
		return a.acquireAccessToken(ctx)
	case KindJSAPITicket:
		return a.acquireTicket(ctx, kind, "jsapi")
	case KindCardTicket:
		return a.acquireTicket(ctx, kind, "wx_card")
	default:
		return Acquisition{}, core.BadInputError("credentials: unknown credential kind " + string(kind))
	}
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   *int64 `json:"expires_in"`
}

type ticketResponse struct {
	Ticket    string `json:"ticket"`
	ExpiresIn *int64 `json:"expires_in"`
}

func (a *Acquirer) acquireAccessToken(ctx context.Context) (Acquisition, error) {
	if strings.TrimSpace(a.config.AppID) == "" || strings.TrimSpace(a.config.AppSecret) == "" {
		return Acquisition{}, core.ConfigurationError("credentials: app id and app secret are required")
	}
	const operation = "credentials: acquire access_token"
	res, err := a.transport.Do(ctx, core.TransportRequest{
		Method: http.MethodGet,
		Path:   AccessTokenPath,
		Query: url.Values{
			"grant_type": {"client_credential"},
			"appid":      {a.config.AppID},
			"secret":     {a.config.AppSecret},
		},
	})
	if err != nil {
		return Acquisition{}, err
	}
	var body accessTokenResponse
	if err := core.DecodeResponse(operation, res, &body); err != nil {
		return Acquisition{}, err
	}
	return a.commit(ctx, KindAccessToken, body.AccessToken, body.ExpiresIn), nil
}

func (a *Acquirer) acquireTicket(ctx context.Context, kind Kind, ticketType string) (Acquisition, error) {
	source := a.accessToken
	if source == nil {
		source = a.cachedAccessToken
	}
	accessToken, err := source(ctx)
	if err != nil {
		return Acquisition{}, err
	}
	operation := "credentials: acquire " + string(kind)
	res, err := a.transport.Do(ctx, core.TransportRequest{
		Method: http.MethodGet,
		Path:   TicketPath,
		Query: url.Values{
			"access_token": {accessToken},
			"type":         {ticketType},
		},
	})
	if err != nil {
		return Acquisition{}, err
	}
	var body ticketResponse
	if err := core.DecodeResponse(operation, res, &body); err != nil {
		return Acquisition{}, err
	}
	return a.commit(ctx, kind, body.Ticket, body.ExpiresIn), nil
}

func (a *Acquirer) commit(ctx context.Context, kind Kind, value string, expiresIn *int64) Acquisition {
	if strings.TrimSpace(value) == "" || expiresIn == nil {
		current := a.store.Get(kind)
		tags := map[string]string{"kind": string(kind)}
		a.instrumentation.IncCounter(ctx, "credentials.degraded", tags)
		a.instrumentation.Warn(ctx, "credential response missing value or lifetime; keeping cached value", map[string]any{
			"kind":          string(kind),
			"has_value":     strings.TrimSpace(value) != "",
			"has_lifetime":  expiresIn != nil,
			"cached_expiry": current.ExpiresAt,
		})
		return Acquisition{
			Kind:      kind,
			Value:     current.Value,
			ExpiresAt: current.ExpiresAt,
			Degraded:  true,
		}
	}
	credential := a.store.Set(kind, value, time.Duration(*expiresIn)*time.Second)
	return Acquisition{
		Kind:      kind,
		Value:     credential.Value,
		ExpiresAt: credential.ExpiresAt,
	}
}

// cachedAccessToken is used when no source is wired: tickets are then
// acquired with whatever access token the store holds.
func (a *Acquirer) cachedAccessToken(context.Context) (string, error) {
	return a.store.Get(KindAccessToken).Value, nil
}
