// Package catalog loads role catalogs and serves them as immutable,
// TTL-cached snapshots. The resolution engine itself has no file or
// network dependency; everything I/O-shaped lives here.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/roleatlas/roleatlas/internal/domain/rbac"
	"github.com/roleatlas/roleatlas/internal/pkg/logger"
)

// ErrUnavailable is returned when no catalog snapshot can be produced.
// The boundary layer maps it to a service error rather than presenting
// a misleading "no roles match".
var ErrUnavailable = errors.New("catalog: unavailable")

// DefaultTTL is how long a snapshot is served before a reload is
// attempted. The underlying role catalogs change infrequently.
const DefaultTTL = 6 * time.Hour

// Provider identifies which role catalog a store serves.
type Provider string

const (
	ProviderAzure Provider = "azure"
	ProviderEntra Provider = "entra"
)

// ParseProvider validates a provider string from the boundary layer.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderAzure, ProviderEntra:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// Loader supplies a fully deserialized role catalog.
type Loader interface {
	Load(ctx context.Context) ([]rbac.RoleDefinition, error)
}

// Snapshot is one immutable generation of the catalog. In-flight
// calculations keep whatever snapshot they obtained; a refresh swaps in
// a new generation without touching the old one.
type Snapshot struct {
	ID       string
	Roles    []rbac.RoleDefinition
	LoadedAt time.Time
}

// Store caches catalog snapshots for a single provider with a TTL and
// atomic swap on refresh. Concurrent readers share the current snapshot
// without locking; only refreshes serialize.
type Store struct {
	provider Provider
	loader   Loader
	ttl      time.Duration

	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes refreshes
}

// NewStore creates a snapshot store. A non-positive ttl selects
// DefaultTTL.
func NewStore(provider Provider, loader Loader, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{provider: provider, loader: loader, ttl: ttl}
}

// Provider returns the provider this store serves.
func (s *Store) Provider() Provider { return s.provider }

// Snapshot returns the current catalog snapshot, loading or reloading
// it when missing or expired. When a reload fails but an older snapshot
// exists, the stale snapshot is served so a transient loader failure
// does not take calculations down.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil && time.Since(snap.LoadedAt) < s.ttl {
		return snap, nil
	}

	snap, err := s.Refresh(ctx)
	if err != nil {
		if stale := s.current.Load(); stale != nil {
			logger.Warn("serving stale catalog snapshot after reload failure",
				"provider", string(s.provider), "snapshot", stale.ID, "error", err)
			return stale, nil
		}
		return nil, err
	}
	return snap, nil
}

// Refresh loads a new snapshot and swaps it in. Concurrent callers
// piggyback on the snapshot produced by whoever got there first.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if snap := s.current.Load(); snap != nil && time.Since(snap.LoadedAt) < s.ttl {
		return snap, nil
	}

	roles, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	snap := &Snapshot{
		ID:       uuid.NewString(),
		Roles:    roles,
		LoadedAt: time.Now(),
	}
	s.current.Store(snap)
	logger.Info("catalog snapshot loaded",
		"provider", string(s.provider), "snapshot", snap.ID, "roles", len(roles))
	return snap, nil
}

// Invalidate drops the current snapshot so the next read reloads.
func (s *Store) Invalidate() {
	s.current.Store(nil)
}
