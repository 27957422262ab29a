package signature

import (
	"strconv"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goliatone/go-wxmp/core"
	"github.com/goliatone/go-wxmp/credentials"
)

const DefaultCardSignType = "SHA1"

// TicketReader exposes cached tickets. The engine never triggers an
// acquisition; an empty ticket is signed as is.
type TicketReader interface {
	Get(kind credentials.Kind) credentials.Credential
}

type URLSignatureRequest struct {
	JSAPITicket string
	NonceStr    string
	Timestamp   string
	URL         string
}

type URLSignature struct {
	NonceStr  string `json:"nonceStr"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Signature string `json:"signature"`
}

type CardSignatureRequest struct {
	APITicket string
	Code      string
	OpenID    string
	CardID    string
	Timestamp string
	NonceStr  string
	SignType  string
}

type CardSignature struct {
	Code      string `json:"code"`
	OpenID    string `json:"openId"`
	NonceStr  string `json:"nonceStr"`
	Timestamp string `json:"timestamp"`
	Signature string `json:"signature"`
}

type Engine struct {
	tickets TicketReader
	clock   clock.Clock
	nonce   core.NonceFunc
}

type EngineOption func(*Engine)

func WithClock(clk clock.Clock) EngineOption {
	return func(e *Engine) {
		if clk != nil {
			e.clock = clk
		}
	}
}

func WithNonce(nonce core.NonceFunc) EngineOption {
	return func(e *Engine) {
		if nonce != nil {
			e.nonce = nonce
		}
	}
}

func NewEngine(tickets TicketReader, opts ...EngineOption) *Engine {
	engine := &Engine{
		tickets: tickets,
		clock:   clock.New(),
		nonce:   core.NewNonce,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}
	return engine
}

// URL signs a page URL for the JS-SDK config call. The fragment is removed
// before signing.
func (e *Engine) URL(req URLSignatureRequest) (URLSignature, error) {
	target := NormalizeURL(req.URL)
	if target == "" {
		return URLSignature{}, core.BadInputError("signature: url is required")
	}
	ticket := req.JSAPITicket
	if ticket == "" {
		ticket = e.cachedTicket(credentials.KindJSAPITicket)
	}
	nonce := e.nonceOr(req.NonceStr)
	timestamp := e.timestampOr(req.Timestamp)

	payload := CanonicalQuery(map[string]string{
		"jsapi_ticket": ticket,
		"noncestr":     nonce,
		"timestamp":    timestamp,
		"url":          target,
	})
	return URLSignature{
		NonceStr:  nonce,
		Timestamp: timestamp,
		URL:       target,
		Signature: SHA1(payload),
	}, nil
}

func (e *Engine) Card(req CardSignatureRequest) (CardSignature, error) {
	signType := strings.TrimSpace(req.SignType)
	if signType == "" {
		signType = DefaultCardSignType
	}
	ticket := req.APITicket
	if ticket == "" {
		ticket = e.cachedTicket(credentials.KindCardTicket)
	}
	nonce := e.nonceOr(req.NonceStr)
	timestamp := e.timestampOr(req.Timestamp)

	digest, err := Digest(strings.ToLower(signType), SortedJoin(ticket, req.Code, req.OpenID, req.CardID, timestamp, nonce))
	if err != nil {
		return CardSignature{}, err
	}
	return CardSignature{
		Code:      req.Code,
		OpenID:    req.OpenID,
		NonceStr:  nonce,
		Timestamp: timestamp,
		Signature: digest,
	}, nil
}

// Timestamp returns the current Unix time in seconds as used in signatures.
func (e *Engine) Timestamp() string {
	return strconv.FormatInt(e.now().Unix(), 10)
}

func (e *Engine) cachedTicket(kind credentials.Kind) string {
	if e == nil || e.tickets == nil {
		return ""
	}
	return e.tickets.Get(kind).Value
}

func (e *Engine) nonceOr(value string) string {
	if value != "" {
		return value
	}
	if e == nil || e.nonce == nil {
		return core.NewNonce()
	}
	return e.nonce()
}

func (e *Engine) timestampOr(value string) string {
	if value != "" {
		return value
	}
	return e.Timestamp()
}

func (e *Engine) now() time.Time {
	if e == nil || e.clock == nil {
		return time.Now()
	}
	return e.clock.Now()
}
