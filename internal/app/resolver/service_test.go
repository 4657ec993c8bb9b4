package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roleatlas/roleatlas/internal/app/catalog"
	"github.com/roleatlas/roleatlas/internal/domain/rbac"
)

type failingLoader struct{}

func (failingLoader) Load(ctx context.Context) ([]rbac.RoleDefinition, error) {
	return nil, errors.New("catalog source down")
}

func newTestService() *Service {
	azure := catalog.NewStore(catalog.ProviderAzure, catalog.StaticLoader{
		{ID: "reader", Name: "Reader", Kind: rbac.RoleKindBuiltIn,
			Grants: []rbac.GrantSet{{Actions: []string{"*"}}}},
		{ID: "vm-op", Name: "Virtual Machine Operator", Kind: rbac.RoleKindCustom,
			Grants: []rbac.GrantSet{{Actions: []string{
				"Microsoft.Compute/virtualMachines/read",
				"Microsoft.Compute/virtualMachines/start/action",
			}}}},
	}, time.Hour)
	entra := catalog.NewStore(catalog.ProviderEntra, catalog.StaticLoader{
		{ID: "app-admin", Name: "Application Administrator", Kind: rbac.RoleKindBuiltIn,
			Grants: []rbac.GrantSet{{Actions: []string{"microsoft.directory/applications/create"}}}},
	}, time.Hour)
	return NewService(azure, entra)
}

func TestLeastPrivilege_RoutesToProvider(t *testing.T) {
	svc := newTestService()

	results, err := svc.LeastPrivilege(context.Background(), catalog.ProviderAzure, rbac.Requirement{
		Actions: []string{"Microsoft.Compute/virtualMachines/read"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(results))
	}
	if results[0].RoleID != "vm-op" {
		t.Errorf("expected the narrow role first, got %s", results[0].RoleID)
	}

	entraResults, err := svc.LeastPrivilege(context.Background(), catalog.ProviderEntra, rbac.Requirement{
		Actions: []string{"microsoft.directory/applications/create"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entraResults) != 1 || entraResults[0].RoleID != "app-admin" {
		t.Errorf("unexpected entra results: %+v", entraResults)
	}
}

func TestLeastPrivilege_EmptyRequirement(t *testing.T) {
	svc := newTestService()

	_, err := svc.LeastPrivilege(context.Background(), catalog.ProviderAzure, rbac.Requirement{})
	if !errors.Is(err, rbac.ErrEmptyRequirement) {
		t.Fatalf("expected ErrEmptyRequirement, got %v", err)
	}
}

func TestLeastPrivilege_EmptyRequirementBeatsUnavailableCatalog(t *testing.T) {
	store := catalog.NewStore(catalog.ProviderAzure, failingLoader{}, time.Hour)
	svc := NewService(store)

	_, err := svc.LeastPrivilege(context.Background(), catalog.ProviderAzure, rbac.Requirement{})
	if !errors.Is(err, rbac.ErrEmptyRequirement) {
		t.Fatalf("input validation must run before catalog access, got %v", err)
	}
}

func TestLeastPrivilege_CatalogUnavailable(t *testing.T) {
	store := catalog.NewStore(catalog.ProviderAzure, failingLoader{}, time.Hour)
	svc := NewService(store)

	_, err := svc.LeastPrivilege(context.Background(), catalog.ProviderAzure, rbac.Requirement{
		Actions: []string{"A/B/read"},
	})
	if !errors.Is(err, catalog.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestLeastPrivilege_UnknownProvider(t *testing.T) {
	svc := newTestService()

	_, err := svc.LeastPrivilege(context.Background(), catalog.Provider("aws"), rbac.Requirement{
		Actions: []string{"A/B/read"},
	})
	if err == nil {
		t.Fatal("expected error for unconfigured provider")
	}
}

func TestSearchRolesAndNamespaces(t *testing.T) {
	svc := newTestService()

	roles, err := svc.SearchRoles(context.Background(), catalog.ProviderAzure, "virtual", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roles) != 1 || roles[0].ID != "vm-op" {
		t.Errorf("unexpected search results: %+v", roles)
	}

	namespaces, err := svc.Namespaces(context.Background(), catalog.ProviderAzure)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(namespaces) != 1 || namespaces[0] != "microsoft.compute" {
		t.Errorf("unexpected namespaces: %v", namespaces)
	}

	ops, err := svc.Operations(context.Background(), catalog.ProviderAzure, "Microsoft.Compute", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 2 {
		t.Errorf("expected 2 operations, got %v", ops)
	}
}

func TestGetRole(t *testing.T) {
	svc := newTestService()

	role, err := svc.GetRole(context.Background(), catalog.ProviderAzure, "reader")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role == nil || role.Name != "Reader" {
		t.Errorf("unexpected role: %+v", role)
	}

	missing, err := svc.GetRole(context.Background(), catalog.ProviderAzure, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown role, got %+v", missing)
	}
}

func TestRefreshCatalog(t *testing.T) {
	svc := newTestService()

	snap, err := svc.RefreshCatalog(context.Background(), catalog.ProviderAzure)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Roles) != 2 {
		t.Errorf("expected refreshed snapshot with 2 roles, got %d", len(snap.Roles))
	}
}
