package credentials

import (
	"context"
	"fmt"

	"github.com/goliatone/go-wxmp/core"
	"golang.org/x/sync/singleflight"
)

type KindAcquirer interface {
	Acquire(ctx context.Context, kind Kind) (Acquisition, error)
}

// Manager serves cached credentials and refreshes them when expired.
// Concurrent refreshes of one kind share a single platform call; a caller
// that gives up waiting does not cancel the shared call.
type Manager struct {
	store    *Store
	acquirer KindAcquirer
	group    singleflight.Group
}

// NewManager wires acquirer to use the manager for access tokens when it has
// no source of its own, so tickets are never fetched with a stale token.
func NewManager(store *Store, acquirer KindAcquirer) *Manager {
	if store == nil {
		store = NewStore(nil)
	}
	manager := &Manager{store: store, acquirer: acquirer}
	if concrete, ok := acquirer.(*Acquirer); ok && concrete != nil && concrete.accessToken == nil {
		concrete.accessToken = manager.AccessToken
	}
	return manager
}

func (m *Manager) Store() *Store {
	if m == nil {
		return nil
	}
	return m.store
}

// Get returns the cached value of kind, refreshing it first when expired.
func (m *Manager) Get(ctx context.Context, kind Kind) (string, error) {
	if m == nil {
		return "", fmt.Errorf("credentials: manager is nil")
	}
	if !m.store.IsExpired(kind) {
		return m.store.Get(kind).Value, nil
	}
	result, err := m.gate(ctx, kind, false)
	if err != nil {
		return "", err
	}
	return result.Value, nil
}

// Refresh acquires kind unconditionally. It joins an in-flight refresh of the
// same kind instead of starting a second one.
func (m *Manager) Refresh(ctx context.Context, kind Kind) (Acquisition, error) {
	if m == nil {
		return Acquisition{}, fmt.Errorf("credentials: manager is nil")
	}
	return m.gate(ctx, kind, true)
}

func (m *Manager) IsExpired(kind Kind) bool {
	if m == nil {
		return true
	}
	return m.store.IsExpired(kind)
}

func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	return m.Get(ctx, KindAccessToken)
}

func (m *Manager) gate(ctx context.Context, kind Kind, force bool) (Acquisition, error) {
	if m.acquirer == nil {
		return Acquisition{}, core.ConfigurationError("credentials: acquirer is required")
	}
	if !kind.Valid() {
		return Acquisition{}, core.BadInputError("credentials: unknown credential kind " + string(kind))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(string(kind), func() (any, error) {
		if !force && !m.store.IsExpired(kind) {
			current := m.store.Get(kind)
			return Acquisition{Kind: kind, Value: current.Value, ExpiresAt: current.ExpiresAt}, nil
		}
		return m.acquirer.Acquire(shared, kind)
	})

	select {
	case <-ctx.Done():
		return Acquisition{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Acquisition{}, res.Err
		}
		result, _ := res.Val.(Acquisition)
		return result, nil
	}
}
