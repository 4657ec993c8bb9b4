package catalog

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"

	"github.com/roleatlas/roleatlas/internal/domain/rbac"
)

// ARMLoader lists live role definitions for a subscription through the
// Azure authorization management plane. Credentials come from the
// DefaultAzureCredential chain (environment, managed identity, CLI).
type ARMLoader struct {
	scope  string
	client *armauthorization.RoleDefinitionsClient
}

// NewARMLoader creates a loader scoped to one subscription.
func NewARMLoader(subscriptionID string, opts *arm.ClientOptions) (*ARMLoader, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription ID is required for live catalog loading")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("acquire azure credentials: %w", err)
	}

	client, err := armauthorization.NewRoleDefinitionsClient(cred, opts)
	if err != nil {
		return nil, fmt.Errorf("create role definitions client: %w", err)
	}

	return &ARMLoader{
		scope:  "/subscriptions/" + subscriptionID,
		client: client,
	}, nil
}

func (l *ARMLoader) Load(ctx context.Context) ([]rbac.RoleDefinition, error) {
	var roles []rbac.RoleDefinition

	pager := l.client.NewListPager(l.scope, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list role definitions: %w", err)
		}
		for _, def := range page.Value {
			if def == nil || def.Properties == nil || def.Properties.RoleName == nil {
				continue
			}
			roles = append(roles, convertARMRole(def))
		}
	}

	return roles, nil
}

func convertARMRole(def *armauthorization.RoleDefinition) rbac.RoleDefinition {
	props := def.Properties

	grants := make([]rbac.GrantSet, 0, len(props.Permissions))
	for _, p := range props.Permissions {
		if p == nil {
			continue
		}
		grants = append(grants, rbac.GrantSet{
			Actions:        derefAll(p.Actions),
			NotActions:     derefAll(p.NotActions),
			DataActions:    derefAll(p.DataActions),
			NotDataActions: derefAll(p.NotDataActions),
		})
	}

	return rbac.RoleDefinition{
		ID:               deref(def.ID),
		Name:             deref(props.RoleName),
		Kind:             azureRoleKind(deref(props.RoleType)),
		Description:      deref(props.Description),
		AssignableScopes: derefAll(props.AssignableScopes),
		Grants:           grants,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefAll(ptrs []*string) []string {
	out := make([]string, 0, len(ptrs))
	for _, p := range ptrs {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
