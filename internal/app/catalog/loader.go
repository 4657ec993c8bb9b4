package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roleatlas/roleatlas/internal/domain/rbac"
	"github.com/roleatlas/roleatlas/internal/pkg/logger"
)

// StaticLoader serves a fixed in-memory catalog. Used in tests and for
// embedded defaults.
type StaticLoader []rbac.RoleDefinition

func (l StaticLoader) Load(ctx context.Context) ([]rbac.RoleDefinition, error) {
	return []rbac.RoleDefinition(l), nil
}

// FileLoader reads a role catalog from a JSON or YAML file and
// normalizes it into the engine's generic role shape. The file format
// depends on the provider: ARM role-definition exports for azure,
// unifiedRoleDefinition exports for entra.
type FileLoader struct {
	Path     string
	Provider Provider
}

// NewFileLoader creates a loader for the given catalog file.
func NewFileLoader(path string, provider Provider) *FileLoader {
	return &FileLoader{Path: path, Provider: provider}
}

func (l *FileLoader) Load(ctx context.Context) ([]rbac.RoleDefinition, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	if isYAMLPath(l.Path) {
		// Normalize YAML catalogs through JSON so both formats share
		// one set of struct tags.
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml catalog %s: %w", l.Path, err)
		}
		data, err = json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml catalog %s: %w", l.Path, err)
		}
	}

	switch l.Provider {
	case ProviderEntra:
		return parseEntraRoles(data)
	default:
		return parseAzureRoles(data)
	}
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// azureRole is the ARM role-definition export shape. Both the
// properties-wrapped form produced by the ARM API and the flattened
// form used by `az role definition create` payloads are accepted.
type azureRole struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Properties *azureProperties `json:"properties"`

	// Flattened form fields.
	azureProperties
}

type azureProperties struct {
	RoleName         string            `json:"roleName"`
	RoleType         string            `json:"roleType"`
	Type             string            `json:"type"`
	Description      string            `json:"description"`
	AssignableScopes []string          `json:"assignableScopes"`
	Permissions      []azurePermission `json:"permissions"`
}

type azurePermission struct {
	Actions        []string `json:"actions"`
	NotActions     []string `json:"notActions"`
	DataActions    []string `json:"dataActions"`
	NotDataActions []string `json:"notDataActions"`
}

func parseAzureRoles(data []byte) ([]rbac.RoleDefinition, error) {
	var raw []azureRole
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse azure catalog: %w", err)
	}

	roles := make([]rbac.RoleDefinition, 0, len(raw))
	for _, r := range raw {
		props := r.azureProperties
		if r.Properties != nil {
			props = *r.Properties
		}
		name := props.RoleName
		if name == "" {
			// A role without a display name is unusable for ranking
			// and almost certainly a broken record; skip it rather
			// than failing the whole catalog.
			logger.Warn("skipping azure role without roleName", "id", r.ID)
			continue
		}

		grants := make([]rbac.GrantSet, 0, len(props.Permissions))
		for _, p := range props.Permissions {
			grants = append(grants, rbac.GrantSet{
				Actions:        emptyIfNil(p.Actions),
				NotActions:     emptyIfNil(p.NotActions),
				DataActions:    emptyIfNil(p.DataActions),
				NotDataActions: emptyIfNil(p.NotDataActions),
			})
		}

		roles = append(roles, rbac.RoleDefinition{
			ID:               firstNonEmpty(r.ID, r.Name),
			Name:             name,
			Kind:             azureRoleKind(firstNonEmpty(props.RoleType, props.Type)),
			Description:      props.Description,
			AssignableScopes: props.AssignableScopes,
			Grants:           grants,
		})
	}
	return roles, nil
}

func azureRoleKind(roleType string) rbac.RoleKind {
	switch strings.ToLower(roleType) {
	case "builtinrole", "builtin":
		return rbac.RoleKindBuiltIn
	}
	return rbac.RoleKindCustom
}

// entraRole is the Microsoft Graph unifiedRoleDefinition export shape.
// Entra permissions are control-plane only; allowedResourceActions map
// to actions and excludedResourceActions to notActions.
type entraRole struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	Description     string `json:"description"`
	IsBuiltIn       bool   `json:"isBuiltIn"`
	RolePermissions []struct {
		AllowedResourceActions  []string `json:"allowedResourceActions"`
		ExcludedResourceActions []string `json:"excludedResourceActions"`
	} `json:"rolePermissions"`
}

func parseEntraRoles(data []byte) ([]rbac.RoleDefinition, error) {
	var raw []entraRole
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse entra catalog: %w", err)
	}

	roles := make([]rbac.RoleDefinition, 0, len(raw))
	for _, r := range raw {
		if r.DisplayName == "" {
			logger.Warn("skipping entra role without displayName", "id", r.ID)
			continue
		}

		grants := make([]rbac.GrantSet, 0, len(r.RolePermissions))
		for _, p := range r.RolePermissions {
			grants = append(grants, rbac.GrantSet{
				Actions:    emptyIfNil(p.AllowedResourceActions),
				NotActions: emptyIfNil(p.ExcludedResourceActions),
			})
		}

		kind := rbac.RoleKindCustom
		if r.IsBuiltIn {
			kind = rbac.RoleKindBuiltIn
		}

		roles = append(roles, rbac.RoleDefinition{
			ID:          r.ID,
			Name:        r.DisplayName,
			Kind:        kind,
			Description: r.Description,
			Grants:      grants,
		})
	}
	return roles, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
