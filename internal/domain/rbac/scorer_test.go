package rbac

import "testing"

func TestScore_BroadWildcardPenalty(t *testing.T) {
	wide := RoleDefinition{
		Name:   "Contributor Lookalike",
		Grants: []GrantSet{{Actions: []string{"*"}}},
	}
	required := []string{
		"Microsoft.Compute/virtualMachines/read",
		"Microsoft.Compute/virtualMachines/start/action",
	}

	// One broad pattern against two required actions.
	if got, want := Score(wide, required), -2*BroadWildcardPenalty; got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestScore_RootSegmentWildcardIsBroad(t *testing.T) {
	role := RoleDefinition{
		Name:   "Reader Lookalike",
		Grants: []GrantSet{{Actions: []string{"*/read"}}},
	}
	required := []string{"Microsoft.Storage/read"}

	if got, want := Score(role, required), -BroadWildcardPenalty; got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestScore_NamespaceBonus(t *testing.T) {
	role := RoleDefinition{
		Name: "Something Unrelated",
		Grants: []GrantSet{{Actions: []string{
			"Microsoft.Compute/virtualMachines/read",
			"Microsoft.Compute/disks/read",
			"Microsoft.Network/virtualNetworks/read",
		}}},
	}
	required := []string{"Microsoft.Compute/virtualMachines/start/action"}

	// Two patterns share the required namespace, one does not.
	if got, want := Score(role, required), 2*NamespaceMatchBonus; got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestScore_NameBonusAppliedOnce(t *testing.T) {
	role := RoleDefinition{
		Name:   "Virtual Machine virtualMachines Operator",
		Grants: []GrantSet{{Actions: []string{"Microsoft.Compute/virtualMachines/read"}}},
	}
	required := []string{
		"Microsoft.Compute/virtualMachines/read",
		"Microsoft.Compute/virtualMachines/start/action",
	}

	// Namespace bonus once (single pattern) plus a single name bonus
	// even though both required actions carry the matching token.
	want := NamespaceMatchBonus + NameMatchBonus
	if got := Score(role, required); got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestScore_VerbPositionTokenGetsNoNameBonus(t *testing.T) {
	role := RoleDefinition{
		Name:   "Storage Reader",
		Grants: []GrantSet{{Actions: []string{"Microsoft.Storage/read"}}},
	}
	required := []string{"Microsoft.Storage/read"}

	// The second segment of a two-segment action is the verb. "read"
	// must not earn the name bonus just because the name says "Reader";
	// only the namespace bonus applies.
	if got, want := Score(role, required), NamespaceMatchBonus; got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestScore_ShortTokenGetsNoNameBonus(t *testing.T) {
	role := RoleDefinition{
		Name:   "ABC Operator",
		Grants: []GrantSet{{Actions: []string{"Name.Space/abc/read"}}},
	}
	required := []string{"Name.Space/abc/read"}

	// "abc" is below the minimum token length; only the namespace bonus applies.
	if got, want := Score(role, required), NamespaceMatchBonus; got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestScore_NarrowBeatsWide(t *testing.T) {
	required := []string{"A/B/read"}
	narrow := RoleDefinition{Name: "Narrow", Grants: []GrantSet{{Actions: []string{"A/B/read"}}}}
	wide := RoleDefinition{Name: "Wide", Grants: []GrantSet{{Actions: []string{"*"}}}}

	if Score(narrow, required) <= Score(wide, required) {
		t.Errorf("narrow role should outscore wide role: narrow=%d wide=%d",
			Score(narrow, required), Score(wide, required))
	}
}
