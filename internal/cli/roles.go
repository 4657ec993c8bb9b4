package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roleatlas/roleatlas/internal/app/catalog"
	"github.com/roleatlas/roleatlas/internal/cli/ui"
	"github.com/roleatlas/roleatlas/internal/domain/rbac"
)

var (
	rolesProvider string
	rolesLimit    int
	rolesSimple   bool
)

var rolesCmd = &cobra.Command{
	Use:   "roles [query]",
	Short: "Search the role catalog by name or description",
	Long: `Search roles by free text. Roles whose name contains the query rank
before description-only matches.

Examples:
  roleatlas roles storage
  roleatlas roles "virtual machine" --provider azure --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoles,
}

func init() {
	rootCmd.AddCommand(rolesCmd)

	rolesCmd.Flags().StringVar(&rolesProvider, "provider", "azure", "role catalog provider (azure or entra)")
	rolesCmd.Flags().IntVar(&rolesLimit, "limit", 0, "maximum results (0 = default)")
	rolesCmd.Flags().BoolVar(&rolesSimple, "simple", false, "plain ASCII output")
}

func runRoles(cmd *cobra.Command, args []string) error {
	provider, err := catalog.ParseProvider(rolesProvider)
	if err != nil {
		return err
	}

	svc, err := newResolverService()
	if err != nil {
		return err
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	roles, err := svc.SearchRoles(cmd.Context(), provider, query, rolesLimit)
	if err != nil {
		return err
	}

	if len(roles) == 0 {
		ui.Warning("No roles matched.")
		return nil
	}

	table := ui.NewTable([]string{"NAME", "TYPE", "PERMISSIONS", "DESCRIPTION"})
	for _, role := range roles {
		table.AddRow([]string{
			role.Name,
			string(role.Kind),
			strconv.Itoa(rbac.PermissionCount(role)),
			truncate(role.Description, 60),
		})
	}

	if rolesSimple {
		fmt.Print(table.RenderSimple())
	} else {
		fmt.Print(table.Render())
	}

	if !IsQuiet() {
		ui.Info(fmt.Sprintf("%d role(s)", len(roles)))
	}

	return nil
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
