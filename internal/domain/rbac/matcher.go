package rbac

import "strings"

// Matches reports whether a permission pattern covers a candidate
// permission string under Azure's slash-segmented wildcard grammar.
//
// Matching is case-insensitive and segment-wise:
//   - a literal segment matches only itself;
//   - a trailing "*" segment matches zero or more remaining segments,
//     so "Microsoft.Storage/*" covers both "Microsoft.Storage" and
//     "Microsoft.Storage/storageAccounts/read";
//   - a non-trailing "*" segment matches exactly one segment, so
//     "*/read" covers "Foo/read" but not "Foo/bar/read";
//   - a bare "*" covers everything.
//
// Only the pattern side expands: a wildcard in the candidate is treated
// as a literal token. The function is total and never interprets its
// inputs as regular expressions.
func Matches(pattern, candidate string) bool {
	if strings.EqualFold(pattern, candidate) {
		return true
	}

	pSegs := strings.Split(strings.ToLower(pattern), "/")
	cSegs := strings.Split(strings.ToLower(candidate), "/")

	for i, seg := range pSegs {
		if seg == "*" {
			if i == len(pSegs)-1 {
				// Trailing wildcard: zero or more remaining segments.
				return true
			}
			if i >= len(cSegs) {
				return false
			}
			// Mid-pattern wildcard consumes exactly one segment.
			continue
		}
		if i >= len(cSegs) || cSegs[i] != seg {
			return false
		}
	}

	return len(pSegs) == len(cSegs)
}

// MatchesAny reports whether any pattern in the list covers candidate.
func MatchesAny(patterns []string, candidate string) bool {
	for _, p := range patterns {
		if Matches(p, candidate) {
			return true
		}
	}
	return false
}

// namespaceOf returns the top-level namespace segment of a permission
// string, lower-cased ("Microsoft.Compute/virtualMachines/read" →
// "microsoft.compute").
func namespaceOf(permission string) string {
	if i := strings.IndexByte(permission, '/'); i >= 0 {
		return strings.ToLower(permission[:i])
	}
	return strings.ToLower(permission)
}

// resourceTypeOf returns the resource-type segment of a permission
// string, lower-cased. Only strings with at least three segments carry
// one: in a two-segment string like "Microsoft.Storage/read" the second
// segment is the verb, not a resource type, and generic verbs must not
// feed name matching.
func resourceTypeOf(permission string) string {
	segs := strings.Split(permission, "/")
	if len(segs) < 3 {
		return ""
	}
	return strings.ToLower(segs[1])
}
