package rbac

import (
	"errors"
	"testing"
)

func role(id, name string, grants ...GrantSet) RoleDefinition {
	return RoleDefinition{ID: id, Name: name, Kind: RoleKindBuiltIn, Grants: grants}
}

func TestCalculate_EmptyRequirementRejected(t *testing.T) {
	_, err := Calculate(Requirement{}, []RoleDefinition{role("r1", "R1", GrantSet{Actions: []string{"*"}})})
	if !errors.Is(err, ErrEmptyRequirement) {
		t.Fatalf("expected ErrEmptyRequirement, got %v", err)
	}
}

func TestCalculate_SingleExactRole(t *testing.T) {
	catalog := []RoleDefinition{
		role("r1", "R1", GrantSet{Actions: []string{"A/B/read"}}),
	}

	results, err := Calculate(Requirement{Actions: []string{"A/B/read"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].RoleID != "r1" {
		t.Errorf("expected r1, got %s", results[0].RoleID)
	}
	if !results[0].IsExactMatch {
		t.Error("expected exact match flag")
	}
	if results[0].PermissionCount != 1 {
		t.Errorf("permission count = %d, want 1", results[0].PermissionCount)
	}
}

func TestCalculate_NoCoverageIsEmptyNotError(t *testing.T) {
	catalog := []RoleDefinition{
		role("r1", "R1", GrantSet{Actions: []string{"A/B/read"}}),
	}

	results, err := Calculate(Requirement{Actions: []string{"Z/Y/write"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result set, got %d results", len(results))
	}
}

func TestCalculate_PartialCoverageFilteredOut(t *testing.T) {
	catalog := []RoleDefinition{
		role("partial", "Partial", GrantSet{Actions: []string{"A/B/read"}}),
		role("full", "Full", GrantSet{Actions: []string{"A/B/read", "A/C/write"}}),
	}

	results, err := Calculate(Requirement{Actions: []string{"A/B/read", "A/C/write"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only fully-covering role, got %d results", len(results))
	}
	if results[0].RoleID != "full" {
		t.Errorf("expected full, got %s", results[0].RoleID)
	}
}

func TestCalculate_ExclusionSubtractsNeverAdds(t *testing.T) {
	catalog := []RoleDefinition{
		role("r1", "Storage Op", GrantSet{
			Actions:    []string{"Microsoft.Storage/*"},
			NotActions: []string{"Microsoft.Storage/storageAccounts/delete"},
		}),
	}

	// The excluded action must not be covered.
	results, err := Calculate(Requirement{Actions: []string{"Microsoft.Storage/storageAccounts/delete"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Error("role with matching notAction must be excluded from results")
	}

	// A sibling action under the same wildcard is still covered.
	results, err = Calculate(Requirement{Actions: []string{"Microsoft.Storage/storageAccounts/read"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Error("role must still cover actions outside its notActions")
	}
}

func TestCalculate_WildcardVsNarrowRanking(t *testing.T) {
	catalog := []RoleDefinition{
		role("wide", "Rwide", GrantSet{Actions: []string{"A/*"}}),
		role("narrow", "Rnarrow", GrantSet{Actions: []string{"A/B/read"}}),
	}

	results, err := Calculate(Requirement{Actions: []string{"A/B/read"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both roles to qualify, got %d", len(results))
	}
	if results[0].RoleID != "narrow" {
		t.Errorf("expected narrow role first, got %s", results[0].RoleID)
	}
}

func TestCalculate_ExactMatchFlag(t *testing.T) {
	catalog := []RoleDefinition{
		role("exact", "Exact", GrantSet{Actions: []string{"A/B/read"}}),
		role("extra", "Extra", GrantSet{Actions: []string{"A/B/read", "Q/R/write"}}),
	}

	results, err := Calculate(Requirement{Actions: []string{"A/B/read"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RoleID != "exact" || !results[0].IsExactMatch {
		t.Errorf("expected exact role flagged and ranked first, got %+v", results[0])
	}
	if results[1].IsExactMatch {
		t.Error("role with an extra unrelated grant must not be flagged exact")
	}
}

func TestCalculate_ExactMatchIgnoresExcludedPatterns(t *testing.T) {
	// The surviving positive grant equals the requirement once the
	// fully-excluded pattern is discounted.
	catalog := []RoleDefinition{
		role("r1", "R1", GrantSet{
			Actions:    []string{"A/B/read", "A/B/delete"},
			NotActions: []string{"A/B/delete"},
		}),
	}

	results, err := Calculate(Requirement{Actions: []string{"A/B/read"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].IsExactMatch {
		t.Error("excluded pattern should not count against exactness")
	}
}

func TestCalculate_DataActionsEvaluatedSeparately(t *testing.T) {
	catalog := []RoleDefinition{
		role("control", "Control Only", GrantSet{Actions: []string{"Microsoft.Storage/blobs/read"}}),
		role("data", "Data Only", GrantSet{DataActions: []string{"Microsoft.Storage/blobs/read"}}),
	}

	results, err := Calculate(Requirement{DataActions: []string{"Microsoft.Storage/blobs/read"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].RoleID != "data" {
		t.Errorf("control-plane grants must not satisfy data-plane requirements: %+v", results)
	}
}

func TestCalculate_StableTieBreakByName(t *testing.T) {
	// Identical grants, so identical score and permission count.
	catalog := []RoleDefinition{
		role("b", "Beta", GrantSet{Actions: []string{"A/B/read"}}),
		role("a", "Alpha", GrantSet{Actions: []string{"A/B/read"}}),
	}

	results, err := Calculate(Requirement{Actions: []string{"A/B/read"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].RoleName != "Alpha" || results[1].RoleName != "Beta" {
		t.Errorf("ties must break by role name, got %s then %s", results[0].RoleName, results[1].RoleName)
	}
}

func TestCalculate_MatcherToleratesPatternsInInput(t *testing.T) {
	catalog := []RoleDefinition{
		role("r1", "R1", GrantSet{Actions: []string{"A/*"}}),
	}

	// A wildcard in the required action is treated as a literal token;
	// it is still covered by the role's own wildcard here.
	results, err := Calculate(Requirement{Actions: []string{"A/*"}}, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected wildcard input to be processed uniformly, got %d results", len(results))
	}
}
