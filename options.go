package wxmp

import (
	"github.com/benbjohnson/clock"
	"github.com/goliatone/go-wxmp/core"
	"github.com/goliatone/go-wxmp/oauth"
	"github.com/goliatone/go-wxmp/transport"
)

type Config = core.Config

type Option func(*clientBuilder)

type clientBuilder struct {
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	metrics         core.MetricsRecorder
	clock           clock.Clock
	nonce           core.NonceFunc
	transport       core.Transport
	httpClient      transport.HTTPDoer
	observers       []core.TransportObserver
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	stateStore      *oauth.StateStore
}

func WithLogger(logger core.Logger) Option {
	return func(b *clientBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *clientBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(b *clientBuilder) {
		b.metrics = recorder
	}
}

// WithClock replaces the time source used for expiry and signature
// timestamps.
func WithClock(clk clock.Clock) Option {
	return func(b *clientBuilder) {
		b.clock = clk
	}
}

func WithNonce(nonce core.NonceFunc) Option {
	return func(b *clientBuilder) {
		b.nonce = nonce
	}
}

// WithTransport bypasses the built-in REST adapter. Base URL, timeout and
// observers are then the transport's concern.
func WithTransport(t core.Transport) Option {
	return func(b *clientBuilder) {
		b.transport = t
	}
}

func WithHTTPClient(client transport.HTTPDoer) Option {
	return func(b *clientBuilder) {
		b.httpClient = client
	}
}

func WithTransportObserver(observer core.TransportObserver) Option {
	return func(b *clientBuilder) {
		if observer != nil {
			b.observers = append(b.observers, observer)
		}
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *clientBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(b *clientBuilder) {
		b.optionsResolver = resolver
	}
}

func WithStateStore(store *oauth.StateStore) Option {
	return func(b *clientBuilder) {
		b.stateStore = store
	}
}

func DefaultConfig() Config {
	return core.DefaultConfig()
}

var (
	IsTransportError     = core.IsTransportError
	IsConfigurationError = core.IsConfigurationError
	AsPlatformError      = core.AsPlatformError
)
