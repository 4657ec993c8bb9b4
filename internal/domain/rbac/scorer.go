package rbac

import "strings"

// Ranking constants. These tune how otherwise-qualifying roles are
// ordered; coverage itself is decided solely by the matcher. They are
// named rather than inlined so ranking behavior stays reproducible and
// testable independently of business-rule changes.
const (
	// BroadWildcardPenalty is subtracted per (grant pattern, required
	// action) pair when the grant is a root-level wildcard such as "*"
	// or "*/read". Broad grants still satisfy coverage, but rank below
	// narrowly-scoped roles.
	BroadWildcardPenalty = 50

	// NamespaceMatchBonus is added per grant pattern whose top-level
	// namespace equals the namespace of any required action.
	NamespaceMatchBonus = 100

	// NameMatchBonus is added once per role when the role's display
	// name contains the resource-type token of a required action.
	NameMatchBonus = 200

	// nameMatchMinTokenLen guards the name bonus against matching on
	// short generic tokens.
	nameMatchMinTokenLen = 4
)

// Score computes the relevance of a role to the required actions.
// Higher is more specific and therefore preferred. The score is a
// deterministic heuristic, not a correctness gate.
func Score(role RoleDefinition, requiredActions []string) int {
	grants := EffectiveGrants(role)
	patterns := make([]string, 0, len(grants.Actions)+len(grants.DataActions))
	patterns = append(patterns, grants.Actions...)
	patterns = append(patterns, grants.DataActions...)

	score := 0

	requiredNamespaces := make(map[string]struct{}, len(requiredActions))
	for _, a := range requiredActions {
		requiredNamespaces[namespaceOf(a)] = struct{}{}
	}

	for _, p := range patterns {
		if isBroadWildcard(p) {
			score -= BroadWildcardPenalty * len(requiredActions)
			continue
		}
		if _, ok := requiredNamespaces[namespaceOf(p)]; ok {
			score += NamespaceMatchBonus
		}
	}

	name := strings.ToLower(role.Name)
	for _, a := range requiredActions {
		token := resourceTypeOf(a)
		if len(token) < nameMatchMinTokenLen {
			continue
		}
		if strings.Contains(name, token) {
			score += NameMatchBonus
			break
		}
	}

	return score
}

// isBroadWildcard reports whether a grant pattern is an overly broad
// root-level wildcard: the bare "*" or a pattern whose first segment is
// "*" (e.g. "*/read").
func isBroadWildcard(pattern string) bool {
	return pattern == "*" || strings.HasPrefix(pattern, "*/")
}
