// Package resolver ties the per-provider catalog stores to the
// resolution engine and exposes the operations the API and CLI consume.
package resolver

import (
	"context"
	"fmt"

	"github.com/roleatlas/roleatlas/internal/app/catalog"
	"github.com/roleatlas/roleatlas/internal/domain/rbac"
)

// Service routes requests to the catalog store of the requested
// provider and runs the engine against its current snapshot. The
// engine is provider-agnostic; this is the only place that knows there
// are two catalogs.
type Service struct {
	stores map[catalog.Provider]*catalog.Store
}

// NewService creates a resolver over the given stores.
func NewService(stores ...*catalog.Store) *Service {
	m := make(map[catalog.Provider]*catalog.Store, len(stores))
	for _, s := range stores {
		m[s.Provider()] = s
	}
	return &Service{stores: m}
}

// Providers lists the providers this service can answer for.
func (s *Service) Providers() []catalog.Provider {
	out := make([]catalog.Provider, 0, len(s.stores))
	for p := range s.stores {
		out = append(out, p)
	}
	return out
}

func (s *Service) snapshot(ctx context.Context, provider catalog.Provider) (*catalog.Snapshot, error) {
	store, ok := s.stores[provider]
	if !ok {
		return nil, fmt.Errorf("%w: no catalog configured for provider %q", catalog.ErrUnavailable, provider)
	}
	return store.Snapshot(ctx)
}

// LeastPrivilege ranks the roles of the provider's catalog that cover
// the requirement. Error classes: rbac.ErrEmptyRequirement for invalid
// input, catalog.ErrUnavailable when no snapshot can be served.
func (s *Service) LeastPrivilege(ctx context.Context, provider catalog.Provider, req rbac.Requirement) ([]rbac.Result, error) {
	// Validate input before touching the catalog so an empty
	// requirement is reported as such even when the catalog is down.
	if req.Empty() {
		return nil, rbac.ErrEmptyRequirement
	}

	snap, err := s.snapshot(ctx, provider)
	if err != nil {
		return nil, err
	}
	return rbac.Calculate(req, snap.Roles)
}

// SearchRoles finds roles by free text over name and description.
func (s *Service) SearchRoles(ctx context.Context, provider catalog.Provider, query string, limit int) ([]rbac.RoleDefinition, error) {
	snap, err := s.snapshot(ctx, provider)
	if err != nil {
		return nil, err
	}
	return rbac.SearchRoles(snap.Roles, query, limit), nil
}

// GetRole returns a single role by its catalog ID.
func (s *Service) GetRole(ctx context.Context, provider catalog.Provider, roleID string) (*rbac.RoleDefinition, error) {
	snap, err := s.snapshot(ctx, provider)
	if err != nil {
		return nil, err
	}
	for _, role := range snap.Roles {
		if role.ID == roleID {
			return &role, nil
		}
	}
	return nil, nil
}

// Namespaces lists the distinct top-level namespaces in the catalog.
func (s *Service) Namespaces(ctx context.Context, provider catalog.Provider) ([]string, error) {
	snap, err := s.snapshot(ctx, provider)
	if err != nil {
		return nil, err
	}
	return rbac.Namespaces(snap.Roles), nil
}

// Operations lists the distinct operations under one namespace.
func (s *Service) Operations(ctx context.Context, provider catalog.Provider, namespace string, limit int) ([]string, error) {
	snap, err := s.snapshot(ctx, provider)
	if err != nil {
		return nil, err
	}
	return rbac.Operations(snap.Roles, namespace, limit), nil
}

// RefreshCatalog drops the provider's snapshot and reloads it.
func (s *Service) RefreshCatalog(ctx context.Context, provider catalog.Provider) (*catalog.Snapshot, error) {
	store, ok := s.stores[provider]
	if !ok {
		return nil, fmt.Errorf("%w: no catalog configured for provider %q", catalog.ErrUnavailable, provider)
	}
	store.Invalidate()
	return store.Refresh(ctx)
}
