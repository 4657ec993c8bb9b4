// Package rbac implements least-privilege resolution over Azure-style
// role catalogs: wildcard permission matching, grant flattening,
// relevance scoring, and ranked candidate calculation.
package rbac

import "errors"

// ErrEmptyRequirement is returned when a calculation is requested with
// no required actions and no required data actions. An empty requirement
// is an input error, never treated as "every role matches".
var ErrEmptyRequirement = errors.New("rbac: requirement must contain at least one action or data action")

// RoleKind identifies the origin of a role definition.
type RoleKind string

const (
	RoleKindBuiltIn RoleKind = "BuiltIn"
	RoleKindCustom  RoleKind = "Custom"
)

// GrantSet is one permission block of a role. Azure role definitions may
// carry several blocks which are unioned; Entra roles carry exactly one.
//
// The Not* lists are subtractive: they remove coverage otherwise granted
// by the corresponding positive list of the same role. They never grant
// access on their own.
type GrantSet struct {
	Actions        []string `json:"actions"`
	NotActions     []string `json:"notActions,omitempty"`
	DataActions    []string `json:"dataActions,omitempty"`
	NotDataActions []string `json:"notDataActions,omitempty"`
}

// RoleDefinition is the provider-neutral role shape the engine operates
// on. Azure ARM roles and Entra directory roles are normalized into it
// by the catalog loaders; the engine itself never sees provider
// specific field names.
type RoleDefinition struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Kind             RoleKind   `json:"kind"`
	Description      string     `json:"description,omitempty"`
	AssignableScopes []string   `json:"assignableScopes,omitempty"`
	Grants           []GrantSet `json:"grants"`
}

// Requirement is a caller-supplied set of concrete permission strings,
// split into control-plane actions and data-plane actions.
type Requirement struct {
	Actions     []string `json:"requiredActions"`
	DataActions []string `json:"requiredDataActions,omitempty"`
}

// Empty reports whether the requirement contains no actions at all.
func (r Requirement) Empty() bool {
	return len(r.Actions) == 0 && len(r.DataActions) == 0
}

// Result describes one role that covers every required action. Results
// are ephemeral, computed per request.
type Result struct {
	RoleID              string   `json:"roleId"`
	RoleName            string   `json:"roleName"`
	RoleKind            RoleKind `json:"roleType"`
	Description         string   `json:"description,omitempty"`
	MatchingActions     []string `json:"matchingActions"`
	MatchingDataActions []string `json:"matchingDataActions"`
	PermissionCount     int      `json:"permissionCount"`
	IsExactMatch        bool     `json:"isExactMatch"`
	Score               int      `json:"score"`
}
