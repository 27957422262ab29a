package credentials

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// AccessTokenRefreshMargin is subtracted from the access token lifetime so a
// token is never handed out moments before the platform rejects it.
const AccessTokenRefreshMargin = 5 * time.Minute

type Kind string

const (
	KindAccessToken Kind = "access_token"
	KindJSAPITicket Kind = "jsapi_ticket"
	KindCardTicket  Kind = "card_ticket"
)

func (k Kind) Valid() bool {
	switch k {
	case KindAccessToken, KindJSAPITicket, KindCardTicket:
		return true
	default:
		return false
	}
}

func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.TrimSpace(strings.ToLower(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("credentials: unknown credential kind %q", raw)
	}
	return kind, nil
}

// Credential is empty until the first successful acquisition.
type Credential struct {
	Value     string
	ExpiresAt time.Time
}

// Store is the in-memory cache for all credential kinds. Value and expiry are
// always replaced together.
type Store struct {
	mu      sync.RWMutex
	clock   clock.Clock
	entries map[Kind]Credential
}

func NewStore(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		clock:   clk,
		entries: map[Kind]Credential{},
	}
}

func (s *Store) Get(kind Kind) Credential {
	if s == nil {
		return Credential{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[kind]
}

// IsExpired applies AccessTokenRefreshMargin to the access token and an exact
// comparison to tickets. A credential that was never set is expired.
func (s *Store) IsExpired(kind Kind) bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	expiresAt := s.entries[kind].ExpiresAt
	s.mu.RUnlock()
	if expiresAt.IsZero() {
		return true
	}
	now := s.clock.Now()
	if kind == KindAccessToken {
		return now.Add(AccessTokenRefreshMargin).After(expiresAt)
	}
	return !now.Before(expiresAt)
}

func (s *Store) Set(kind Kind, value string, ttl time.Duration) Credential {
	if s == nil {
		return Credential{}
	}
	credential := Credential{
		Value:     value,
		ExpiresAt: s.clock.Now().Add(ttl),
	}
	s.mu.Lock()
	s.entries[kind] = credential
	s.mu.Unlock()
	return credential
}

func (s *Store) Clock() clock.Clock {
	if s == nil {
		return clock.New()
	}
	return s.clock
}
