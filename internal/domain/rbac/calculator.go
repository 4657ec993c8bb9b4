package rbac

import (
	"sort"
	"strings"
)

// Calculate evaluates every role in the catalog against the requirement
// and returns the roles that cover it, ranked most-specific first.
//
// A role qualifies only when every required action is matched by some
// pattern in its flattened actions and not matched by any pattern in
// its notActions, and likewise for data actions. Roles covering only a
// subset are filtered out entirely; partial coverage is never reported.
//
// Results are ordered by exact-match flag, then relevance score, then
// ascending total permission count, then role name, so that ties
// resolve deterministically regardless of catalog order.
//
// An empty requirement is rejected with ErrEmptyRequirement. A
// requirement no role covers yields an empty slice and a nil error.
func Calculate(req Requirement, catalog []RoleDefinition) ([]Result, error) {
	if req.Empty() {
		return nil, ErrEmptyRequirement
	}

	results := make([]Result, 0)
	for _, role := range catalog {
		if res, ok := evaluate(req, role); ok {
			results = append(results, res)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.IsExactMatch != b.IsExactMatch {
			return a.IsExactMatch
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.PermissionCount != b.PermissionCount {
			return a.PermissionCount < b.PermissionCount
		}
		return a.RoleName < b.RoleName
	})

	return results, nil
}

func evaluate(req Requirement, role RoleDefinition) (Result, bool) {
	grants := EffectiveGrants(role)
	excl := Exclusions(role)

	for _, action := range req.Actions {
		if !covers(grants.Actions, excl.Actions, action) {
			return Result{}, false
		}
	}
	for _, action := range req.DataActions {
		if !covers(grants.DataActions, excl.DataActions, action) {
			return Result{}, false
		}
	}

	return Result{
		RoleID:              role.ID,
		RoleName:            role.Name,
		RoleKind:            role.Kind,
		Description:         role.Description,
		MatchingActions:     append([]string(nil), req.Actions...),
		MatchingDataActions: append([]string(nil), req.DataActions...),
		PermissionCount:     PermissionCount(role),
		IsExactMatch:        isExactMatch(req, grants, excl),
		Score:               Score(role, append(append([]string(nil), req.Actions...), req.DataActions...)),
	}, true
}

// covers reports whether a single required action is granted: some
// positive pattern matches it and no exclusion pattern matches it.
// Exclusions only subtract coverage; they never grant.
func covers(positive, exclusions []string, action string) bool {
	return MatchesAny(positive, action) && !MatchesAny(exclusions, action)
}

// isExactMatch reports whether the role's effective positive grants
// equal the required set with nothing extra, compared per plane and
// case-insensitively. A positive pattern fully removed by an exclusion
// pattern does not count against exactness.
func isExactMatch(req Requirement, grants, excl Grants) bool {
	return setsEqual(surviving(grants.Actions, excl.Actions), req.Actions) &&
		setsEqual(surviving(grants.DataActions, excl.DataActions), req.DataActions)
}

// surviving filters out positive patterns that are themselves covered
// by an exclusion pattern.
func surviving(positive, exclusions []string) []string {
	out := make([]string, 0, len(positive))
	for _, p := range positive {
		if !MatchesAny(exclusions, p) {
			out = append(out, p)
		}
	}
	return out
}

func setsEqual(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, s := range a {
		as[strings.ToLower(s)] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, s := range b {
		bs[strings.ToLower(s)] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for s := range as {
		if _, ok := bs[s]; !ok {
			return false
		}
	}
	return true
}
