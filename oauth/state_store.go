package oauth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-wxmp/core"
	"github.com/patrickmn/go-cache"
)

const DefaultStateTTL = 10 * time.Minute

type StateRecord struct {
	State       string
	Scope       Scope
	RedirectURL string
	Metadata    map[string]any
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// StateStore keeps issued authorization states in memory until they are
// consumed once or expire. Expired entries are purged on Issue.
type StateStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	cache *cache.Cache
	nonce core.NonceFunc
}

func NewStateStore(ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &StateStore{
		ttl:   ttl,
		cache: cache.New(ttl, 0),
		nonce: core.NewNonce,
	}
}

func (s *StateStore) Issue(_ context.Context, record StateRecord) (StateRecord, error) {
	if s == nil {
		return StateRecord{}, core.ConfigurationError("oauth: state store is not configured")
	}
	record.State = strings.TrimSpace(record.State)
	if record.State == "" {
		record.State = s.nonce()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.ExpiresAt = now.Add(s.ttl)
	record.Metadata = cloneMetadata(record.Metadata)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.DeleteExpired()
	if err := s.cache.Add(record.State, record, s.ttl); err != nil {
		return StateRecord{}, core.BadInputError("oauth: state " + record.State + " already issued")
	}
	return record, nil
}

// Consume returns the record for state and removes it, so a state can be
// redeemed only once.
func (s *StateStore) Consume(_ context.Context, state string) (StateRecord, error) {
	if s == nil {
		return StateRecord{}, core.ConfigurationError("oauth: state store is not configured")
	}
	state = strings.TrimSpace(state)
	if state == "" {
		return StateRecord{}, core.BadInputError("oauth: state is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.cache.Get(state)
	if !ok {
		return StateRecord{}, core.BadInputError("oauth: state is unknown or expired")
	}
	s.cache.Delete(state)
	record, _ := value.(StateRecord)
	return record, nil
}

func (s *StateStore) Len() int {
	if s == nil {
		return 0
	}
	return s.cache.ItemCount()
}

func cloneMetadata(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
