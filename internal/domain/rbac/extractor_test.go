package rbac

import (
	"reflect"
	"testing"
)

func TestEffectiveGrants_UnionsGrantSets(t *testing.T) {
	role := RoleDefinition{
		ID:   "r1",
		Name: "Multi Block",
		Grants: []GrantSet{
			{Actions: []string{"Microsoft.Compute/virtualMachines/read"}},
			{Actions: []string{"Microsoft.Network/virtualNetworks/read"}, DataActions: []string{"Microsoft.Storage/blobs/read"}},
		},
	}

	grants := EffectiveGrants(role)

	wantActions := []string{
		"Microsoft.Compute/virtualMachines/read",
		"Microsoft.Network/virtualNetworks/read",
	}
	if !reflect.DeepEqual(grants.Actions, wantActions) {
		t.Errorf("actions = %v, want %v", grants.Actions, wantActions)
	}
	wantData := []string{"Microsoft.Storage/blobs/read"}
	if !reflect.DeepEqual(grants.DataActions, wantData) {
		t.Errorf("data actions = %v, want %v", grants.DataActions, wantData)
	}
}

func TestEffectiveGrants_DeduplicatesCaseInsensitively(t *testing.T) {
	role := RoleDefinition{
		Grants: []GrantSet{
			{Actions: []string{"Microsoft.Compute/read"}},
			{Actions: []string{"MICROSOFT.COMPUTE/READ"}},
		},
	}

	grants := EffectiveGrants(role)
	if len(grants.Actions) != 1 {
		t.Fatalf("expected 1 deduplicated action, got %v", grants.Actions)
	}
	// First spelling wins.
	if grants.Actions[0] != "Microsoft.Compute/read" {
		t.Errorf("expected original spelling preserved, got %q", grants.Actions[0])
	}
}

func TestEffectiveGrants_MissingBucketsAreEmpty(t *testing.T) {
	grants := EffectiveGrants(RoleDefinition{ID: "empty"})
	if len(grants.Actions) != 0 || len(grants.DataActions) != 0 {
		t.Errorf("expected empty grants for role without permission blocks, got %+v", grants)
	}
}

func TestExclusions(t *testing.T) {
	role := RoleDefinition{
		Grants: []GrantSet{
			{
				Actions:        []string{"Microsoft.Storage/*"},
				NotActions:     []string{"Microsoft.Storage/storageAccounts/delete"},
				NotDataActions: []string{"Microsoft.Storage/blobs/write"},
			},
		},
	}

	excl := Exclusions(role)
	if len(excl.Actions) != 1 || excl.Actions[0] != "Microsoft.Storage/storageAccounts/delete" {
		t.Errorf("notActions = %v", excl.Actions)
	}
	if len(excl.DataActions) != 1 || excl.DataActions[0] != "Microsoft.Storage/blobs/write" {
		t.Errorf("notDataActions = %v", excl.DataActions)
	}
}

func TestPermissions_LazyAndStoppable(t *testing.T) {
	role := RoleDefinition{
		Grants: []GrantSet{
			{Actions: []string{"a/read", "a/write"}, NotActions: []string{"a/delete"}},
		},
	}

	count := 0
	for range Permissions(role) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("expected early termination after 2 yields, got %d", count)
	}
}

func TestPermissionCount(t *testing.T) {
	role := RoleDefinition{
		Grants: []GrantSet{
			{Actions: []string{"a/read"}, NotActions: []string{"a/delete"}},
			{DataActions: []string{"b/read", "b/write"}, NotDataActions: []string{"b/delete"}},
		},
	}

	if got := PermissionCount(role); got != 5 {
		t.Errorf("PermissionCount = %d, want 5", got)
	}
}
