package rbac

import (
	"iter"
	"strings"
)

// Bucket identifies one of the four permission lists of a grant set.
type Bucket int

const (
	BucketActions Bucket = iota
	BucketNotActions
	BucketDataActions
	BucketNotDataActions
)

// Grants holds flattened permission strings for the two planes.
// Wildcards are preserved unexpanded; expansion happens at match time.
type Grants struct {
	Actions     []string
	DataActions []string
}

// Permissions lazily yields every permission string of the role across
// all grant set blocks, tagged with the bucket it came from. Missing
// buckets simply yield nothing, so a malformed role degrades to an
// empty grant rather than an error.
func Permissions(role RoleDefinition) iter.Seq2[Bucket, string] {
	return func(yield func(Bucket, string) bool) {
		for _, g := range role.Grants {
			for _, p := range g.Actions {
				if !yield(BucketActions, p) {
					return
				}
			}
			for _, p := range g.NotActions {
				if !yield(BucketNotActions, p) {
					return
				}
			}
			for _, p := range g.DataActions {
				if !yield(BucketDataActions, p) {
					return
				}
			}
			for _, p := range g.NotDataActions {
				if !yield(BucketNotDataActions, p) {
					return
				}
			}
		}
	}
}

// EffectiveGrants materializes the role's positive grants, unioned
// across grant set blocks with case-insensitive de-duplication.
// Exclusions are NOT applied here: an excluded pattern may itself be a
// wildcard that removes only part of a granted wildcard's coverage, so
// exclusion must be evaluated per required action at match time.
func EffectiveGrants(role RoleDefinition) Grants {
	return collect(role, BucketActions, BucketDataActions)
}

// Exclusions materializes the role's notActions and notDataActions,
// unioned across grant set blocks.
func Exclusions(role RoleDefinition) Grants {
	return collect(role, BucketNotActions, BucketNotDataActions)
}

// PermissionCount returns the total number of permission strings across
// all four buckets, used as a specificity tie-break when ranking.
func PermissionCount(role RoleDefinition) int {
	n := 0
	for range Permissions(role) {
		n++
	}
	return n
}

func collect(role RoleDefinition, control, data Bucket) Grants {
	var g Grants
	seenActions := make(map[string]struct{})
	seenData := make(map[string]struct{})

	for bucket, p := range Permissions(role) {
		key := strings.ToLower(p)
		switch bucket {
		case control:
			if _, ok := seenActions[key]; !ok {
				seenActions[key] = struct{}{}
				g.Actions = append(g.Actions, p)
			}
		case data:
			if _, ok := seenData[key]; !ok {
				seenData[key] = struct{}{}
				g.DataActions = append(g.DataActions, p)
			}
		}
	}
	return g
}
