package rbac

import (
	"sort"
	"strings"
)

// DefaultSearchLimit caps search and listing results so a single
// request cannot return the whole catalog. Applied whenever the caller
// passes a non-positive or larger limit.
const DefaultSearchLimit = 50

// SearchRoles returns roles whose name or description contains the
// query, case-insensitively. Name matches rank before description
// matches, earlier match positions rank before later ones, and shorter
// names break remaining ties so the most direct hit surfaces first.
// An empty query lists roles in name order.
func SearchRoles(catalog []RoleDefinition, query string, limit int) []RoleDefinition {
	limit = clampLimit(limit)
	q := strings.ToLower(strings.TrimSpace(query))

	type ranked struct {
		role RoleDefinition
		key  searchKey
	}

	matches := make([]ranked, 0)
	for _, role := range catalog {
		key, ok := rankRole(role, q)
		if !ok {
			continue
		}
		matches = append(matches, ranked{role: role, key: key})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].key.less(matches[j].key)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]RoleDefinition, len(matches))
	for i, m := range matches {
		out[i] = m.role
	}
	return out
}

type searchKey struct {
	inDescription bool // name matches sort first
	position      int
	nameLen       int
	name          string
}

func (k searchKey) less(o searchKey) bool {
	if k.inDescription != o.inDescription {
		return !k.inDescription
	}
	if k.position != o.position {
		return k.position < o.position
	}
	if k.nameLen != o.nameLen {
		return k.nameLen < o.nameLen
	}
	return k.name < o.name
}

func rankRole(role RoleDefinition, query string) (searchKey, bool) {
	name := strings.ToLower(role.Name)
	if query == "" {
		// No match position or name length to rank on; plain name order.
		return searchKey{name: name}, true
	}
	if pos := strings.Index(name, query); pos >= 0 {
		return searchKey{position: pos, nameLen: len(name), name: name}, true
	}
	if pos := strings.Index(strings.ToLower(role.Description), query); pos >= 0 {
		return searchKey{inDescription: true, position: pos, nameLen: len(name), name: name}, true
	}
	return searchKey{}, false
}

// Namespaces lists the distinct top-level namespaces present across all
// roles' permission strings, sorted alphabetically. Wildcard-only
// patterns contribute no namespace.
func Namespaces(catalog []RoleDefinition) []string {
	seen := make(map[string]struct{})
	for _, role := range catalog {
		for _, p := range Permissions(role) {
			ns := namespaceOf(p)
			if ns == "" || ns == "*" {
				continue
			}
			seen[ns] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Operations lists the distinct permission strings under one namespace
// across all roles, sorted alphabetically and capped at limit.
func Operations(catalog []RoleDefinition, namespace string, limit int) []string {
	limit = clampLimit(limit)
	want := strings.ToLower(namespace)

	seen := make(map[string]struct{})
	for _, role := range catalog {
		for _, p := range Permissions(role) {
			if namespaceOf(p) != want {
				continue
			}
			seen[strings.ToLower(p)] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for op := range seen {
		out = append(out, op)
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultSearchLimit {
		return DefaultSearchLimit
	}
	return limit
}
