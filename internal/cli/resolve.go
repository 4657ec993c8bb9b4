package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roleatlas/roleatlas/internal/app/catalog"
	"github.com/roleatlas/roleatlas/internal/cli/ui"
	"github.com/roleatlas/roleatlas/internal/domain/rbac"
)

var (
	resolveActions     []string
	resolveDataActions []string
	resolveProvider    string
	resolveTop         int
	resolveSimple      bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Find the least-privileged roles covering a set of actions",
	Long: `Resolve the roles that cover every required action, ranked from most
to least specific. Roles missing even one required action are excluded.

Examples:
  roleatlas resolve -a Microsoft.Compute/virtualMachines/read
  roleatlas resolve -a Microsoft.Storage/storageAccounts/read \
      -d Microsoft.Storage/storageAccounts/blobServices/containers/blobs/read
  roleatlas resolve --provider entra -a microsoft.directory/users/standard/read`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringArrayVarP(&resolveActions, "action", "a", nil, "required control-plane action (repeatable)")
	resolveCmd.Flags().StringArrayVarP(&resolveDataActions, "data-action", "d", nil, "required data-plane action (repeatable)")
	resolveCmd.Flags().StringVar(&resolveProvider, "provider", "azure", "role catalog provider (azure or entra)")
	resolveCmd.Flags().IntVar(&resolveTop, "top", 10, "number of candidates to show")
	resolveCmd.Flags().BoolVar(&resolveSimple, "simple", false, "plain ASCII output")
}

func runResolve(cmd *cobra.Command, args []string) error {
	provider, err := catalog.ParseProvider(resolveProvider)
	if err != nil {
		return err
	}

	svc, err := newResolverService()
	if err != nil {
		return err
	}

	results, err := svc.LeastPrivilege(cmd.Context(), provider, rbac.Requirement{
		Actions:     resolveActions,
		DataActions: resolveDataActions,
	})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		ui.Warning("No role covers every required action.")
		return nil
	}

	if !IsQuiet() {
		ui.Header(fmt.Sprintf("Least-privilege candidates (%s)", provider))
	}

	table := ui.NewTable([]string{"ROLE", "TYPE", "EXACT", "PERMISSIONS", "SCORE"})
	shown := results
	if resolveTop > 0 && len(shown) > resolveTop {
		shown = shown[:resolveTop]
	}
	for _, res := range shown {
		exact := ""
		if res.IsExactMatch {
			exact = "yes"
		}
		table.AddRow([]string{
			res.RoleName,
			string(res.RoleKind),
			exact,
			strconv.Itoa(res.PermissionCount),
			strconv.Itoa(res.Score),
		})
	}

	if resolveSimple {
		fmt.Print(table.RenderSimple())
	} else {
		fmt.Print(table.Render())
	}

	if !IsQuiet() && len(results) > len(shown) {
		ui.Info(fmt.Sprintf("%d more candidates not shown (--top %d)", len(results)-len(shown), resolveTop))
	}

	return nil
}
